package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"clinic-management-server/internal/models"
)

func TestDecodePatchTreatmentUpdate(t *testing.T) {
	id := primitive.NewObjectID()
	doctor := "Dr. Mehta"
	req := &UpdatePatientRequest{
		TreatmentID:       id.Hex(),
		IsTreatmentUpdate: true,
		DoctorName:        &doctor,
	}

	patch, err := decodePatch(req)
	require.NoError(t, err)

	tp, ok := patch.(models.TreatmentPatch)
	require.True(t, ok, "expected a TreatmentPatch, got %T", patch)
	assert.Equal(t, id, tp.TreatmentID)
	require.NotNil(t, tp.Fields.DoctorName)
	assert.Equal(t, doctor, *tp.Fields.DoctorName)
}

func TestDecodePatchTreatmentUpdateWithoutID(t *testing.T) {
	req := &UpdatePatientRequest{IsTreatmentUpdate: true}

	_, err := decodePatch(req)
	assert.Error(t, err)
}

func TestDecodePatchTreatmentUpdateBadID(t *testing.T) {
	req := &UpdatePatientRequest{IsTreatmentUpdate: true, TreatmentID: "not-an-objectid"}

	_, err := decodePatch(req)
	assert.Error(t, err)
}

func TestDecodePatchNewTreatment(t *testing.T) {
	amount := 750.0
	lead := models.LeadOpen
	req := &UpdatePatientRequest{
		IsNewTreatment:  true,
		AmountToCollect: &amount,
		Lead:            &lead,
	}

	patch, err := decodePatch(req)
	require.NoError(t, err)

	nt, ok := patch.(models.NewTreatment)
	require.True(t, ok, "expected a NewTreatment, got %T", patch)
	require.NotNil(t, nt.Fields.AmountToCollect)
	assert.Equal(t, amount, *nt.Fields.AmountToCollect)
	require.NotNil(t, nt.Lead, "lead rides along for the reopen snapshot")
	assert.Equal(t, models.LeadOpen, *nt.Lead)
}

func TestDecodePatchPatientFields(t *testing.T) {
	name := "Asha Rao"
	lead := models.LeadOpen
	req := &UpdatePatientRequest{
		Name: &name,
		Lead: &lead,
	}

	patch, err := decodePatch(req)
	require.NoError(t, err)

	fp, ok := patch.(models.PatientFieldPatch)
	require.True(t, ok, "expected a PatientFieldPatch, got %T", patch)
	require.NotNil(t, fp.Name)
	assert.Equal(t, name, *fp.Name)
	require.NotNil(t, fp.Lead)
}

func TestDecodePatchTreatmentUpdateWinsOverNewTreatment(t *testing.T) {
	// Both tags set is a malformed client, but the update tag takes priority,
	// matching the dispatch order of the endpoint.
	id := primitive.NewObjectID()
	req := &UpdatePatientRequest{
		TreatmentID:       id.Hex(),
		IsTreatmentUpdate: true,
		IsNewTreatment:    true,
	}

	patch, err := decodePatch(req)
	require.NoError(t, err)

	_, ok := patch.(models.TreatmentPatch)
	assert.True(t, ok)
}
