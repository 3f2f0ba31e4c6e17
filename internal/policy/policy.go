// Package policy holds one authorization predicate per guarded action.
// Every predicate takes the explicit Principal instead of reading global
// request state, so the rules are testable in isolation.
package policy

import "pharmacare-backend/internal/models"

// CanViewOrder: the owner or any staff member.
func CanViewOrder(p models.Principal, order *models.Order) bool {
	return order.UserID == p.UserID || p.Role.IsAdmin()
}

// CanUpdateOrder gates PATCH /orders/{id}. Super admins may do anything.
// Admins may update other users' orders except canceling them or touching
// the subscription. A regular user may only cancel their own order.
func CanUpdateOrder(p models.Principal, order *models.Order, status models.OrderStatus, changesSubscribe bool) bool {
	if p.Role.IsSuperAdmin() {
		return true
	}
	if p.Role.IsAdmin() {
		if order.UserID == p.UserID {
			return true
		}
		return status != models.OrderCanceled && !changesSubscribe
	}
	return order.UserID == p.UserID && status == models.OrderCanceled && !changesSubscribe
}

func CanDeleteOrder(p models.Principal) bool {
	return p.Role.IsSuperAdmin()
}

func CanManageCatalog(p models.Principal) bool {
	return p.Role.IsAdmin()
}

func CanListUsers(p models.Principal) bool {
	return p.Role.IsAdmin()
}

// CanManageUser: a user may change or delete only themselves; super admins anyone.
func CanManageUser(p models.Principal, targetID uint64) bool {
	return p.UserID == targetID || p.Role.IsSuperAdmin()
}

func CanCreatePharmacist(p models.Principal) bool {
	return p.Role.IsSuperAdmin()
}

func CanUpdatePharmacist(p models.Principal, ph *models.Pharmacist) bool {
	return p.UserID == ph.UserID || p.Role.IsSuperAdmin()
}

func CanViewPayment(p models.Principal, payment *models.Payment) bool {
	return payment.UserID == p.UserID || p.Role.IsSuperAdmin()
}

func CanDeletePayment(p models.Principal) bool {
	return p.Role.IsSuperAdmin()
}

func CanViewDelivery(p models.Principal, delivery *models.Delivery) bool {
	return (delivery.Order != nil && delivery.Order.UserID == p.UserID) || p.Role.IsAdmin()
}

func CanDeleteDelivery(p models.Principal) bool {
	return p.Role.IsSuperAdmin()
}

// CanBookConsultation: staff cannot book consultations for themselves.
func CanBookConsultation(p models.Principal) bool {
	return !p.Role.IsAdmin()
}

// CanViewConsultation: super admin, the pharmacist owning the slot, or the
// requesting user.
func CanViewConsultation(p models.Principal, cons *models.Consultation) bool {
	if p.Role.IsSuperAdmin() || cons.UserID == p.UserID {
		return true
	}
	return ownsSlot(p, cons)
}

// CanUpdateConsultation: super admin or the slot's pharmacist may set any
// status; the requesting user may only reject.
func CanUpdateConsultation(p models.Principal, cons *models.Consultation, status models.ConsultationStatus) bool {
	if p.Role.IsSuperAdmin() || ownsSlot(p, cons) {
		return true
	}
	return cons.UserID == p.UserID && status == models.ConsultationRejected
}

func CanDeleteConsultation(p models.Principal) bool {
	return p.Role.IsSuperAdmin()
}

func CanViewDashboard(p models.Principal) bool {
	return p.Role.IsAdmin()
}

func ownsSlot(p models.Principal, cons *models.Consultation) bool {
	if !p.Role.IsAdmin() || cons.Slot == nil || cons.Slot.Pharmacist == nil {
		return false
	}
	return cons.Slot.Pharmacist.UserID == p.UserID
}
