package handlers

import (
	"net/http"
	"testing"
	"time"

	"pharmacare-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func bookingInput(pharmacistUserID uint64, date string, start int, period string) map[string]any {
	return map[string]any{
		"pharmacist_id": pharmacistUserID,
		"date":          date,
		"start_time":    start,
		"start_period":  period,
	}
}

func tomorrow() string {
	return time.Now().AddDate(0, 0, 1).Format("2006-01-02")
}

func TestBookConsultation(t *testing.T) {
	db := setupDB(t)
	phUser, pharmacist := seedPharmacist(t, db, "pharm")
	user := seedUser(t, db, "alice", models.RoleUser)

	c, w := newContext(t, principalFor(user), http.MethodPost, "/consultations",
		bookingInput(phUser.ID, tomorrow(), 10, "AM"))
	BookConsultation(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Consultation booked successfully.", decodeBody(t, w)["message"])

	var slot models.Slot
	require.NoError(t, db.First(&slot).Error)
	assert.Equal(t, pharmacist.ID, slot.PharmacistID)
	assert.Equal(t, 10, slot.StartTime)
	assert.Equal(t, 11, slot.EndTime)
	assert.False(t, slot.IsAvailable)

	var consultation models.Consultation
	require.NoError(t, db.First(&consultation).Error)
	assert.Equal(t, user.ID, consultation.UserID)
	assert.Equal(t, slot.ID, consultation.SlotID)
	assert.Equal(t, models.ConsultationPending, consultation.Status)

	// both parties notified
	var notifications int64
	db.Model(&models.Notification{}).Count(&notifications)
	assert.EqualValues(t, 2, notifications)
}

func TestBookConsultationPMNormalization(t *testing.T) {
	db := setupDB(t)
	phUser, _ := seedPharmacist(t, db, "pharm")
	user := seedUser(t, db, "bob", models.RoleUser)

	c, w := newContext(t, principalFor(user), http.MethodPost, "/consultations",
		bookingInput(phUser.ID, tomorrow(), 3, "PM"))
	BookConsultation(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var slot models.Slot
	require.NoError(t, db.First(&slot).Error)
	assert.Equal(t, 15, slot.StartTime)
}

func TestBookConsultationOutsideBusinessHours(t *testing.T) {
	db := setupDB(t)
	phUser, _ := seedPharmacist(t, db, "pharm")
	user := seedUser(t, db, "carol", models.RoleUser)

	for _, tc := range []struct {
		start  int
		period string
	}{
		{8, "AM"},
		{6, "PM"},
		{12, "AM"},
	} {
		c, w := newContext(t, principalFor(user), http.MethodPost, "/consultations",
			bookingInput(phUser.ID, tomorrow(), tc.start, tc.period))
		BookConsultation(c)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "The start time must be between 9 AM and 5 PM.", decodeBody(t, w)["errors"])
	}

	var slots int64
	db.Model(&models.Slot{}).Count(&slots)
	assert.Zero(t, slots)
}

func TestBookConsultationAdminForbidden(t *testing.T) {
	db := setupDB(t)
	phUser, _ := seedPharmacist(t, db, "pharm")
	admin := seedUser(t, db, "admin2", models.RoleAdmin)

	c, w := newContext(t, principalFor(admin), http.MethodPost, "/consultations",
		bookingInput(phUser.ID, tomorrow(), 10, "AM"))
	BookConsultation(c)

	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Admins cannot register consultations.", decodeBody(t, w)["errors"])
}

func TestBookConsultationSlotTaken(t *testing.T) {
	db := setupDB(t)
	phUser, _ := seedPharmacist(t, db, "pharm")
	first := seedUser(t, db, "dave", models.RoleUser)
	second := seedUser(t, db, "erin", models.RoleUser)

	c, w := newContext(t, principalFor(first), http.MethodPost, "/consultations",
		bookingInput(phUser.ID, tomorrow(), 10, "AM"))
	BookConsultation(c)
	require.Equal(t, http.StatusCreated, w.Code)

	c, w = newContext(t, principalFor(second), http.MethodPost, "/consultations",
		bookingInput(phUser.ID, tomorrow(), 10, "AM"))
	BookConsultation(c)

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "This slot is already booked.", decodeBody(t, w)["errors"])

	var consultations int64
	db.Model(&models.Consultation{}).Count(&consultations)
	assert.EqualValues(t, 1, consultations, "losing request must not create a consultation")

	var slots int64
	db.Model(&models.Slot{}).Count(&slots)
	assert.EqualValues(t, 1, slots)
}

func TestBookConsultationAfterRejectionReusesSlot(t *testing.T) {
	db := setupDB(t)
	phUser, _ := seedPharmacist(t, db, "pharm")
	first := seedUser(t, db, "kim", models.RoleUser)
	second := seedUser(t, db, "lena", models.RoleUser)

	consultation := bookFor(t, db, first, phUser)

	c, w := newContext(t, principalFor(first), http.MethodPatch, "/consultations/1",
		map[string]string{"status": "rejected"})
	setParam(c, "id", consultation.ID)
	UpdateConsultation(c)
	require.Equal(t, http.StatusOK, w.Code)

	// the freed hour is bookable again
	c, w = newContext(t, principalFor(second), http.MethodPost, "/consultations",
		bookingInput(phUser.ID, tomorrow(), 10, "AM"))
	BookConsultation(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var slots int64
	db.Model(&models.Slot{}).Count(&slots)
	assert.EqualValues(t, 1, slots, "rebooking must reuse the existing slot row")

	var slot models.Slot
	require.NoError(t, db.First(&slot, consultation.SlotID).Error)
	assert.False(t, slot.IsAvailable)

	var active int64
	db.Model(&models.Consultation{}).
		Where("slot_id = ? AND status <> ?", consultation.SlotID, models.ConsultationRejected).
		Count(&active)
	assert.EqualValues(t, 1, active)
}

func TestBookConsultationUnknownPharmacist(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "frank", models.RoleUser)

	c, w := newContext(t, principalFor(user), http.MethodPost, "/consultations",
		bookingInput(999, tomorrow(), 10, "AM"))
	BookConsultation(c)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Pharmacist not found.", decodeBody(t, w)["errors"])
}

func bookFor(t *testing.T, db *gorm.DB, user models.User, phUser models.User) models.Consultation {
	t.Helper()
	c, w := newContext(t, principalFor(user), http.MethodPost, "/consultations",
		bookingInput(phUser.ID, tomorrow(), 10, "AM"))
	BookConsultation(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var consultation models.Consultation
	require.NoError(t, db.Preload("Slot.Pharmacist").First(&consultation).Error)
	return consultation
}

func TestUpdateConsultationConfirmThenComplete(t *testing.T) {
	db := setupDB(t)
	phUser, _ := seedPharmacist(t, db, "pharm")
	user := seedUser(t, db, "grace", models.RoleUser)
	consultation := bookFor(t, db, user, phUser)

	c, w := newContext(t, principalFor(phUser), http.MethodPatch, "/consultations/1",
		map[string]string{"status": "confirmed"})
	setParam(c, "id", consultation.ID)
	UpdateConsultation(c)
	require.Equal(t, http.StatusOK, w.Code)

	var reread models.Consultation
	require.NoError(t, db.First(&reread, consultation.ID).Error)
	assert.Equal(t, models.ConsultationConfirmed, reread.Status)
	assert.NotNil(t, reread.ConfirmedAt)
	assert.Nil(t, reread.CompletedAt)

	c, w = newContext(t, principalFor(phUser), http.MethodPatch, "/consultations/1",
		map[string]string{"status": "completed"})
	setParam(c, "id", consultation.ID)
	UpdateConsultation(c)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, db.First(&reread, consultation.ID).Error)
	assert.Equal(t, models.ConsultationCompleted, reread.Status)
	assert.NotNil(t, reread.CompletedAt)

	// completion never releases the hour
	var slot models.Slot
	require.NoError(t, db.First(&slot, consultation.SlotID).Error)
	assert.False(t, slot.IsAvailable)
}

func TestUpdateConsultationRejectFreesSlot(t *testing.T) {
	db := setupDB(t)
	phUser, _ := seedPharmacist(t, db, "pharm")
	user := seedUser(t, db, "heidi", models.RoleUser)
	consultation := bookFor(t, db, user, phUser)

	c, w := newContext(t, principalFor(user), http.MethodPatch, "/consultations/1",
		map[string]string{"status": "rejected"})
	setParam(c, "id", consultation.ID)
	UpdateConsultation(c)
	require.Equal(t, http.StatusOK, w.Code)

	var slot models.Slot
	require.NoError(t, db.First(&slot, consultation.SlotID).Error)
	assert.True(t, slot.IsAvailable)
}

func TestUpdateConsultationTerminalStates(t *testing.T) {
	db := setupDB(t)
	phUser, _ := seedPharmacist(t, db, "pharm")
	user := seedUser(t, db, "ivan", models.RoleUser)
	consultation := bookFor(t, db, user, phUser)

	require.NoError(t, db.Model(&models.Consultation{}).Where("id = ?", consultation.ID).
		Update("status", models.ConsultationRejected).Error)

	c, w := newContext(t, principalFor(phUser), http.MethodPatch, "/consultations/1",
		map[string]string{"status": "confirmed"})
	setParam(c, "id", consultation.ID)
	UpdateConsultation(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateConsultationUserMayOnlyReject(t *testing.T) {
	db := setupDB(t)
	phUser, _ := seedPharmacist(t, db, "pharm")
	user := seedUser(t, db, "judy", models.RoleUser)
	consultation := bookFor(t, db, user, phUser)

	c, w := newContext(t, principalFor(user), http.MethodPatch, "/consultations/1",
		map[string]string{"status": "confirmed"})
	setParam(c, "id", consultation.ID)
	UpdateConsultation(c)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteConsultationNotifiesBothParties(t *testing.T) {
	db := setupDB(t)
	phUser, _ := seedPharmacist(t, db, "pharm")
	user := seedUser(t, db, "nina", models.RoleUser)
	super := seedUser(t, db, "root", models.RoleSuperAdmin)
	consultation := bookFor(t, db, user, phUser)

	require.NoError(t, db.Where("1 = 1").Delete(&models.Notification{}).Error)

	c, w := newContext(t, principalFor(super), http.MethodDelete, "/consultations/1", nil)
	setParam(c, "id", consultation.ID)
	DeleteConsultation(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)

	var slot models.Slot
	require.NoError(t, db.First(&slot, consultation.SlotID).Error)
	assert.True(t, slot.IsAvailable)

	var userNotes, pharmNotes int64
	db.Model(&models.Notification{}).Where("user_id = ?", user.ID).Count(&userNotes)
	db.Model(&models.Notification{}).Where("user_id = ?", phUser.ID).Count(&pharmNotes)
	assert.EqualValues(t, 1, userNotes)
	assert.EqualValues(t, 1, pharmNotes)
}

func TestGetSlotsRendersFullDay(t *testing.T) {
	db := setupDB(t)
	phUser, _ := seedPharmacist(t, db, "pharm")
	user := seedUser(t, db, "kate", models.RoleUser)
	bookFor(t, db, user, phUser)

	c, w := newContext(t, principalFor(user), http.MethodGet,
		"/pharmacists/slots?date="+tomorrow(), nil)
	setParam(c, "user_id", phUser.ID)
	GetSlots(c)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	slots := body["slots"].([]any)
	require.Len(t, slots, models.SlotClosingHour-models.SlotOpeningHour+1)

	booked := 0
	for _, raw := range slots {
		slot := raw.(map[string]any)
		if slot["is_available"] == false {
			booked++
			assert.EqualValues(t, 10, slot["start_time"])
			assert.Equal(t, "AM", slot["start_period"])
		}
	}
	assert.Equal(t, 1, booked)

	// the closing hour itself is a bookable window
	last := slots[len(slots)-1].(map[string]any)
	assert.EqualValues(t, 5, last["start_time"])
	assert.Equal(t, "PM", last["start_period"])
}

func TestGetSlotsShowsClosingHourBooking(t *testing.T) {
	db := setupDB(t)
	phUser, _ := seedPharmacist(t, db, "pharm")
	user := seedUser(t, db, "mona", models.RoleUser)

	c, w := newContext(t, principalFor(user), http.MethodPost, "/consultations",
		bookingInput(phUser.ID, tomorrow(), 5, "PM"))
	BookConsultation(c)
	require.Equal(t, http.StatusCreated, w.Code)

	c, w = newContext(t, principalFor(user), http.MethodGet,
		"/pharmacists/slots?date="+tomorrow(), nil)
	setParam(c, "user_id", phUser.ID)
	GetSlots(c)
	require.Equal(t, http.StatusOK, w.Code)

	slots := decodeBody(t, w)["slots"].([]any)
	last := slots[len(slots)-1].(map[string]any)
	assert.EqualValues(t, 5, last["start_time"])
	assert.Equal(t, "PM", last["start_period"])
	assert.Equal(t, false, last["is_available"])
}
