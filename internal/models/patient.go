package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Gender enum
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// TreatmentStatus enum
type TreatmentStatus string

const (
	TreatmentPending           TreatmentStatus = "Pending"
	TreatmentComplete          TreatmentStatus = "Complete"
	TreatmentNextVisitRequired TreatmentStatus = "Next Visit Required"
)

// PaymentMode enum; empty means not yet collected / unspecified.
type PaymentMode string

const (
	PaymentCash   PaymentMode = "Cash"
	PaymentOnline PaymentMode = "Online"
	PaymentNone   PaymentMode = ""
)

// Lead status values
const (
	LeadOpen   = "open"
	LeadClosed = "closed"
)

var (
	// ErrPatientNotFound is returned when no patient matches the requested identifier.
	ErrPatientNotFound = errors.New("patient not found")
	// ErrTreatmentNotFound is returned when a treatment patch names an unknown treatment id.
	ErrTreatmentNotFound = errors.New("treatment not found for update")
	// ErrLeadNotReady is returned when a lead close is attempted before any
	// treatment has been added since the lead was last opened.
	ErrLeadNotReady = errors.New("at least one new treatment must be added since the lead was opened")
)

// Treatment represents one billable clinical encounter embedded in a patient
// document. Its id is assigned when the treatment is appended.
type Treatment struct {
	ID              primitive.ObjectID `bson:"_id" json:"_id"`
	Treatment       string             `bson:"treatment" json:"treatment"`
	AmountToCollect float64            `bson:"amountToCollect" json:"amountToCollect"`
	DoctorName      string             `bson:"doctorName" json:"doctorName"`
	TreatmentStatus TreatmentStatus    `bson:"treatmentStatus" json:"treatmentStatus"`
	NextVisitDate   *time.Time         `bson:"nextVisitDate" json:"nextVisitDate"`
	PaymentMode     PaymentMode        `bson:"paymentMode" json:"paymentMode"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Patient represents one clinic patient/lead. The opaque patientIdentifier is
// the public identity; the storage _id never leaves the store layer.
type Patient struct {
	ID                       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PatientIdentifier        string             `bson:"patientIdentifier" json:"patientIdentifier"`
	Name                     string             `bson:"name" json:"name"`
	DateOfBirth              time.Time          `bson:"dateOfBirth" json:"dateOfBirth"`
	Gender                   Gender             `bson:"gender" json:"gender"`
	ContactNumber            string             `bson:"contactNumber" json:"contactNumber"`
	Address                  string             `bson:"address" json:"address"`
	Lead                     string             `bson:"lead" json:"lead"`
	TreatmentCountAtLeadOpen int                `bson:"treatmentCountAtLeadOpen" json:"treatmentCountAtLeadOpen"`
	IsNewEnquiry             bool               `bson:"isNewEnquiry" json:"isNewEnquiry"`
	Treatments               []Treatment        `bson:"treatments" json:"treatments"`
	CreatedAt                time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt                time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NewPatientParams carries the caller-supplied fields of a patient
// registration.
type NewPatientParams struct {
	Name          string
	DateOfBirth   time.Time
	Gender        Gender
	ContactNumber string
	Address       string
	Lead          string
	IsNewEnquiry  *bool
}

// NewPatient builds a freshly registered patient: a generated opaque
// identifier, an empty treatment list and a zero lead-open treatment count.
// Lead defaults to open and isNewEnquiry to true when the caller leaves them
// unset.
func NewPatient(params NewPatientParams, now time.Time) Patient {
	lead := params.Lead
	if lead == "" {
		lead = LeadOpen
	}
	isNewEnquiry := true
	if params.IsNewEnquiry != nil {
		isNewEnquiry = *params.IsNewEnquiry
	}

	return Patient{
		PatientIdentifier:        uuid.NewString(),
		Name:                     params.Name,
		DateOfBirth:              params.DateOfBirth,
		Gender:                   params.Gender,
		ContactNumber:            params.ContactNumber,
		Address:                  params.Address,
		Lead:                     lead,
		TreatmentCountAtLeadOpen: 0,
		IsNewEnquiry:             isNewEnquiry,
		Treatments:               []Treatment{},
		CreatedAt:                now,
		UpdatedAt:                now,
	}
}

// Apply mutates the patient according to a decoded patch. The lead-open
// snapshot is taken before the patch body is applied, so a patch that both
// reopens the lead and appends a treatment records the count from before the
// append. The patient's updatedAt is always bumped.
func (p *Patient) Apply(patch PatientPatch, now time.Time) error {
	if lead := patch.leadTarget(); lead != nil && *lead == LeadOpen && p.Lead != LeadOpen {
		p.TreatmentCountAtLeadOpen = len(p.Treatments)
	}

	if err := patch.apply(p, now); err != nil {
		return err
	}

	p.UpdatedAt = now
	return nil
}

// CanCloseLead reports whether at least one treatment has been added since the
// lead was last opened.
func (p *Patient) CanCloseLead() bool {
	return len(p.Treatments) > p.TreatmentCountAtLeadOpen
}

// Close resolves a lead-close request against the patient's current state.
// An already-closed lead is a no-op (changed is false and nothing is touched,
// so closing is idempotent). An open lead with no treatment added since it was
// opened returns ErrLeadNotReady. Otherwise the lead is closed and updatedAt
// bumped.
func (p *Patient) Close(now time.Time) (changed bool, err error) {
	if p.Lead == LeadClosed {
		return false, nil
	}
	if !p.CanCloseLead() {
		return false, ErrLeadNotReady
	}
	p.Lead = LeadClosed
	p.UpdatedAt = now
	return true, nil
}

// FindTreatment returns a pointer into the treatments slice for the given id.
func (p *Patient) FindTreatment(id primitive.ObjectID) *Treatment {
	for i := range p.Treatments {
		if p.Treatments[i].ID == id {
			return &p.Treatments[i]
		}
	}
	return nil
}
