package policy

import (
	"testing"

	"pharmacare-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

var (
	user  = models.Principal{UserID: 1, Role: models.RoleUser}
	admin = models.Principal{UserID: 2, Role: models.RoleAdmin}
	super = models.Principal{UserID: 3, Role: models.RoleSuperAdmin}
)

func TestCanViewOrder(t *testing.T) {
	order := &models.Order{UserID: 1}

	assert.True(t, CanViewOrder(user, order))
	assert.True(t, CanViewOrder(admin, order))
	assert.True(t, CanViewOrder(super, order))
	assert.False(t, CanViewOrder(models.Principal{UserID: 9, Role: models.RoleUser}, order))
}

func TestCanUpdateOrder(t *testing.T) {
	own := &models.Order{UserID: 1}
	foreign := &models.Order{UserID: 9}

	// owner may only cancel, never deliver or touch the subscription
	assert.True(t, CanUpdateOrder(user, own, models.OrderCanceled, false))
	assert.False(t, CanUpdateOrder(user, own, models.OrderDelivered, false))
	assert.False(t, CanUpdateOrder(user, own, models.OrderCanceled, true))
	assert.False(t, CanUpdateOrder(user, foreign, models.OrderCanceled, false))

	// admin may deliver anyone's order but not cancel a stranger's
	assert.True(t, CanUpdateOrder(admin, foreign, models.OrderDelivered, false))
	assert.False(t, CanUpdateOrder(admin, foreign, models.OrderCanceled, false))
	assert.False(t, CanUpdateOrder(admin, foreign, models.OrderDelivered, true))
	assert.True(t, CanUpdateOrder(admin, &models.Order{UserID: 2}, models.OrderCanceled, true))

	// super admin may do anything
	assert.True(t, CanUpdateOrder(super, foreign, models.OrderCanceled, true))
}

func TestCanManageUser(t *testing.T) {
	assert.True(t, CanManageUser(user, 1))
	assert.False(t, CanManageUser(user, 2))
	assert.False(t, CanManageUser(admin, 1))
	assert.True(t, CanManageUser(super, 1))
}

func TestCanBookConsultation(t *testing.T) {
	assert.True(t, CanBookConsultation(user))
	assert.False(t, CanBookConsultation(admin))
	assert.False(t, CanBookConsultation(super))
}

func TestCanUpdateConsultation(t *testing.T) {
	cons := &models.Consultation{
		UserID: 1,
		Slot: &models.Slot{
			Pharmacist: &models.Pharmacist{UserID: 2},
		},
	}

	// requester may only reject
	assert.True(t, CanUpdateConsultation(user, cons, models.ConsultationRejected))
	assert.False(t, CanUpdateConsultation(user, cons, models.ConsultationConfirmed))

	// the slot's pharmacist may set any status
	assert.True(t, CanUpdateConsultation(admin, cons, models.ConsultationConfirmed))
	assert.True(t, CanUpdateConsultation(admin, cons, models.ConsultationCompleted))

	// an unrelated pharmacist may not
	other := models.Principal{UserID: 5, Role: models.RoleAdmin}
	assert.False(t, CanUpdateConsultation(other, cons, models.ConsultationConfirmed))

	assert.True(t, CanUpdateConsultation(super, cons, models.ConsultationConfirmed))
}

func TestCanViewConsultation(t *testing.T) {
	cons := &models.Consultation{
		UserID: 1,
		Slot: &models.Slot{
			Pharmacist: &models.Pharmacist{UserID: 2},
		},
	}

	assert.True(t, CanViewConsultation(user, cons))
	assert.True(t, CanViewConsultation(admin, cons))
	assert.True(t, CanViewConsultation(super, cons))
	assert.False(t, CanViewConsultation(models.Principal{UserID: 9, Role: models.RoleUser}, cons))
}

func TestSuperAdminOnlyActions(t *testing.T) {
	assert.False(t, CanDeleteOrder(admin))
	assert.True(t, CanDeleteOrder(super))
	assert.False(t, CanCreatePharmacist(admin))
	assert.True(t, CanCreatePharmacist(super))
	assert.False(t, CanDeletePayment(admin))
	assert.True(t, CanDeletePayment(super))
}
