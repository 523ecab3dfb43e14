package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"clinic-management-server/internal/models"
	"clinic-management-server/internal/utils"
)

// PatientHandler handles patient and treatment requests.
type PatientHandler struct {
	DB *mongo.Database
}

// NewPatientHandler creates a new PatientHandler.
func NewPatientHandler(db *mongo.Database) *PatientHandler {
	return &PatientHandler{DB: db}
}

func (h *PatientHandler) patients() *mongo.Collection {
	return h.DB.Collection(models.PatientCollection)
}

// findByIdentifier loads a patient by its opaque identifier, translating the
// driver's no-document result into the model's not-found error.
func (h *PatientHandler) findByIdentifier(ctx context.Context, identifier string) (*models.Patient, error) {
	var patient models.Patient
	err := h.patients().FindOne(ctx, bson.M{"patientIdentifier": identifier}).Decode(&patient)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrPatientNotFound
		}
		return nil, err
	}
	return &patient, nil
}

// CreatePatientRequest represents the request body for patient registration.
type CreatePatientRequest struct {
	Name          string        `json:"name" binding:"required,max=60"`
	DateOfBirth   time.Time     `json:"dateOfBirth" binding:"required"`
	Gender        models.Gender `json:"gender" binding:"required,oneof=Male Female Other"`
	ContactNumber string        `json:"contactNumber" binding:"required,max=20"`
	Address       string        `json:"address" binding:"required,max=200"`
	Lead          string        `json:"lead" binding:"omitempty,oneof=open closed"`
	IsNewEnquiry  *bool         `json:"isNewEnquiry"`
}

// CreatePatient registers a new patient with a fresh opaque identifier, an
// empty treatment list and a zero lead-open treatment count.
func (h *PatientHandler) CreatePatient(c *gin.Context) {
	var req CreatePatientRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	patient := models.NewPatient(models.NewPatientParams{
		Name:          req.Name,
		DateOfBirth:   req.DateOfBirth,
		Gender:        req.Gender,
		ContactNumber: req.ContactNumber,
		Address:       req.Address,
		Lead:          req.Lead,
		IsNewEnquiry:  req.IsNewEnquiry,
	}, time.Now().UTC())

	result, err := h.patients().InsertOne(ctx, patient)
	if err != nil {
		log.Error().Err(err).Msg("failed to create patient")
		utils.InternalServerError(c, "Failed to create patient")
		return
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		patient.ID = oid
	}

	utils.Created(c, patient)
}

// GetPatients returns the full patient list, unfiltered and unpaginated.
func (h *PatientHandler) GetPatients(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	patients, err := fetchAllPatients(ctx, h.DB)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch patients")
		utils.InternalServerError(c, "Failed to fetch patients")
		return
	}

	utils.Success(c, patients)
}

// SearchPatients returns all patients whose contact number exactly matches.
// Zero matches is surfaced as a not-found failure, not an empty success.
func (h *PatientHandler) SearchPatients(c *gin.Context) {
	contactNumber := c.Query("contactNumber")
	if contactNumber == "" {
		utils.BadRequest(c, "Contact number is required for search.")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	cursor, err := h.patients().Find(ctx, bson.M{"contactNumber": contactNumber})
	if err != nil {
		log.Error().Err(err).Msg("failed to search patients")
		utils.InternalServerError(c, "Failed to search patients")
		return
	}
	defer cursor.Close(ctx)

	var patients []models.Patient
	if err := cursor.All(ctx, &patients); err != nil {
		log.Error().Err(err).Msg("failed to decode patients")
		utils.InternalServerError(c, "Failed to decode patients")
		return
	}

	if len(patients) == 0 {
		utils.NotFound(c, "No patients found with this mobile number.")
		return
	}

	utils.Success(c, patients)
}

// UpdatePatientRequest represents the request body for the patient update
// endpoint. Exactly one of the three patch shapes applies, selected by the
// isTreatmentUpdate / isNewTreatment tags; the shape is resolved once in
// decodePatch and never re-inspected.
type UpdatePatientRequest struct {
	TreatmentID       string `json:"_id"`
	IsTreatmentUpdate bool   `json:"isTreatmentUpdate"`
	IsNewTreatment    bool   `json:"isNewTreatment"`

	// Patient fields
	Name          *string        `json:"name" binding:"omitempty,max=60"`
	DateOfBirth   *time.Time     `json:"dateOfBirth"`
	Gender        *models.Gender `json:"gender" binding:"omitempty,oneof=Male Female Other"`
	ContactNumber *string        `json:"contactNumber" binding:"omitempty,max=20"`
	Address       *string        `json:"address" binding:"omitempty,max=200"`
	Lead          *string        `json:"lead" binding:"omitempty,oneof=open closed"`
	IsNewEnquiry  *bool          `json:"isNewEnquiry"`

	// Treatment fields
	Treatment       *string                 `json:"treatment" binding:"omitempty,max=500"`
	AmountToCollect *float64                `json:"amountToCollect" binding:"omitempty,gte=0"`
	DoctorName      *string                 `json:"doctorName" binding:"omitempty,max=60"`
	TreatmentStatus *models.TreatmentStatus `json:"treatmentStatus" binding:"omitempty,oneof=Pending Complete 'Next Visit Required'"`
	NextVisitDate   *time.Time              `json:"nextVisitDate"`
	PaymentMode     *models.PaymentMode     `json:"paymentMode" binding:"omitempty,oneof=Cash Online"`
}

func (req *UpdatePatientRequest) treatmentFields() models.TreatmentFields {
	return models.TreatmentFields{
		Treatment:       req.Treatment,
		AmountToCollect: req.AmountToCollect,
		DoctorName:      req.DoctorName,
		TreatmentStatus: req.TreatmentStatus,
		NextVisitDate:   req.NextVisitDate,
		PaymentMode:     req.PaymentMode,
	}
}

// decodePatch resolves the request into one of the three patch variants.
func decodePatch(req *UpdatePatientRequest) (models.PatientPatch, error) {
	switch {
	case req.IsTreatmentUpdate:
		if req.TreatmentID == "" {
			return nil, errors.New("treatment update requires a treatment _id")
		}
		id, err := primitive.ObjectIDFromHex(req.TreatmentID)
		if err != nil {
			return nil, errors.New("invalid treatment _id")
		}
		return models.TreatmentPatch{TreatmentID: id, Lead: req.Lead, Fields: req.treatmentFields()}, nil
	case req.IsNewTreatment:
		return models.NewTreatment{Lead: req.Lead, Fields: req.treatmentFields()}, nil
	default:
		return models.PatientFieldPatch{
			Name:          req.Name,
			DateOfBirth:   req.DateOfBirth,
			Gender:        req.Gender,
			ContactNumber: req.ContactNumber,
			Address:       req.Address,
			Lead:          req.Lead,
			IsNewEnquiry:  req.IsNewEnquiry,
		}, nil
	}
}

// UpdatePatient applies one of the three patch shapes to a patient located by
// its opaque identifier. Reopening a lead snapshots the treatment count before
// the patch body runs. The whole document is persisted in one replace; a
// failed patch leaves the stored document untouched.
func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	identifier := c.Param("id")

	var req UpdatePatientRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patch, err := decodePatch(&req)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	patient, err := h.findByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, models.ErrPatientNotFound) {
			utils.NotFound(c, "Patient not found.")
		} else {
			log.Error().Err(err).Msg("failed to load patient for update")
			utils.InternalServerError(c, "Database error")
		}
		return
	}

	if err := patient.Apply(patch, time.Now().UTC()); err != nil {
		if errors.Is(err, models.ErrTreatmentNotFound) {
			utils.NotFound(c, "Treatment not found for update.")
		} else {
			utils.BadRequest(c, err.Error())
		}
		return
	}

	if _, err := h.patients().ReplaceOne(ctx, bson.M{"_id": patient.ID}, patient); err != nil {
		log.Error().Err(err).Msg("failed to persist patient update")
		utils.InternalServerError(c, "Failed to update patient")
		return
	}

	utils.Success(c, patient)
}

// CloseLead marks a patient's lead as closed. Closing requires at least one
// treatment added since the lead was last opened; closing an already-closed
// lead is a no-op success.
func (h *PatientHandler) CloseLead(c *gin.Context) {
	identifier := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	patient, err := h.findByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, models.ErrPatientNotFound) {
			utils.NotFound(c, "Patient not found.")
		} else {
			log.Error().Err(err).Msg("failed to load patient for lead close")
			utils.InternalServerError(c, "Database error")
		}
		return
	}

	now := time.Now().UTC()
	changed, err := patient.Close(now)
	if err != nil {
		utils.Conflict(c, "Cannot close lead: "+err.Error()+".")
		return
	}
	if !changed {
		utils.Success(c, patient)
		return
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"lead": models.LeadClosed, "updatedAt": now}}
	err = h.patients().FindOneAndUpdate(ctx, bson.M{"patientIdentifier": identifier}, update, opts).Decode(patient)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.NotFound(c, "Patient not found.")
		} else {
			log.Error().Err(err).Msg("failed to close lead")
			utils.InternalServerError(c, "Failed to close lead")
		}
		return
	}

	utils.Success(c, patient)
}

// fetchAllPatients loads the entire patient collection. Both the list endpoint
// and the dashboards work from the full collection; there is no query-side
// filtering.
func fetchAllPatients(ctx context.Context, db *mongo.Database) ([]models.Patient, error) {
	cursor, err := db.Collection(models.PatientCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	patients := []models.Patient{}
	if err := cursor.All(ctx, &patients); err != nil {
		return nil, err
	}
	return patients, nil
}
