package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PatientPatch is one of the three mutually exclusive update shapes accepted
// by the patient update endpoint: PatientFieldPatch, NewTreatment or
// TreatmentPatch. The shape is decoded once at the API boundary; nothing past
// that point inspects tag fields.
type PatientPatch interface {
	// leadTarget exposes the lead value the patch intends to set, if any, so
	// Apply can take the treatment-count snapshot before the body runs.
	leadTarget() *string
	apply(p *Patient, now time.Time) error
}

// TreatmentFields carries the optional fields of a treatment patch or a new
// treatment. Nil pointers mean "leave unchanged" (or "use the default" when
// creating).
type TreatmentFields struct {
	Treatment       *string
	AmountToCollect *float64
	DoctorName      *string
	TreatmentStatus *TreatmentStatus
	NextVisitDate   *time.Time
	PaymentMode     *PaymentMode
}

func (f TreatmentFields) mergeInto(t *Treatment, now time.Time) {
	if f.Treatment != nil {
		t.Treatment = *f.Treatment
	}
	if f.AmountToCollect != nil {
		t.AmountToCollect = *f.AmountToCollect
	}
	if f.DoctorName != nil {
		t.DoctorName = *f.DoctorName
	}
	if f.TreatmentStatus != nil {
		t.TreatmentStatus = *f.TreatmentStatus
	}
	if f.NextVisitDate != nil {
		t.NextVisitDate = f.NextVisitDate
	}
	if f.PaymentMode != nil {
		t.PaymentMode = *f.PaymentMode
	}
	// nextVisitDate only carries meaning for "Next Visit Required".
	if t.TreatmentStatus != TreatmentNextVisitRequired {
		t.NextVisitDate = nil
	}
	t.UpdatedAt = now
}

// PatientFieldPatch updates top-level patient fields. The treatments array and
// the patch tag fields are never merged through this path.
type PatientFieldPatch struct {
	Name          *string
	DateOfBirth   *time.Time
	Gender        *Gender
	ContactNumber *string
	Address       *string
	Lead          *string
	IsNewEnquiry  *bool
}

func (fp PatientFieldPatch) leadTarget() *string { return fp.Lead }

func (fp PatientFieldPatch) apply(p *Patient, _ time.Time) error {
	if fp.Name != nil {
		p.Name = *fp.Name
	}
	if fp.DateOfBirth != nil {
		p.DateOfBirth = *fp.DateOfBirth
	}
	if fp.Gender != nil {
		p.Gender = *fp.Gender
	}
	if fp.ContactNumber != nil {
		p.ContactNumber = *fp.ContactNumber
	}
	if fp.Address != nil {
		p.Address = *fp.Address
	}
	if fp.Lead != nil {
		p.Lead = *fp.Lead
	}
	if fp.IsNewEnquiry != nil {
		p.IsNewEnquiry = *fp.IsNewEnquiry
	}
	return nil
}

// NewTreatment appends a treatment to the patient, applying defaults for any
// unset fields. The id is assigned here. Lead, when present, only drives the
// snapshot in Apply; the patient's lead field itself is not changed by this
// shape.
type NewTreatment struct {
	Lead   *string
	Fields TreatmentFields
}

func (nt NewTreatment) leadTarget() *string { return nt.Lead }

func (nt NewTreatment) apply(p *Patient, now time.Time) error {
	t := Treatment{
		ID:              primitive.NewObjectID(),
		TreatmentStatus: TreatmentPending,
		PaymentMode:     PaymentNone,
		CreatedAt:       now,
	}
	nt.Fields.mergeInto(&t, now)
	p.Treatments = append(p.Treatments, t)
	return nil
}

// TreatmentPatch merges fields into an existing treatment located by id.
// Lead behaves as on NewTreatment.
type TreatmentPatch struct {
	TreatmentID primitive.ObjectID
	Lead        *string
	Fields      TreatmentFields
}

func (tp TreatmentPatch) leadTarget() *string { return tp.Lead }

func (tp TreatmentPatch) apply(p *Patient, now time.Time) error {
	t := p.FindTreatment(tp.TreatmentID)
	if t == nil {
		return ErrTreatmentNotFound
	}
	tp.Fields.mergeInto(t, now)
	return nil
}
