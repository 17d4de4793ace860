package model

import "install_manager/constants"

// Role is the closed set of portal roles. Permission checks go through the
// capability matrix below instead of comparing raw strings at call sites.
type Role string

const (
	RoleAdmin    Role = constants.ROLE_ADMIN
	RoleEngineer Role = constants.ROLE_ENGINEER
	RoleClient   Role = constants.ROLE_CLIENT
)

type Capability string

const (
	CapManageAccounts   Capability = "manage_accounts"
	CapManageClients    Capability = "manage_clients"
	CapManageEngineers  Capability = "manage_engineers"
	CapManageServices   Capability = "manage_services"
	CapManageQuotes     Capability = "manage_quotes"
	CapViewAllOrders    Capability = "view_all_orders"
	CapScheduleOrder    Capability = "schedule_order"
	CapOverrideStatus   Capability = "override_status"
	CapDeleteOrder      Capability = "delete_order"
	CapAdvanceJobStatus Capability = "advance_job_status"
	CapToggleChecklist  Capability = "toggle_checklist"
	CapFlagRevisit      Capability = "flag_revisit"
	CapViewStatistics   Capability = "view_statistics"
	CapSendMessage      Capability = "send_message"
	CapUploadPhoto      Capability = "upload_photo"
	CapPayOrder         Capability = "pay_order"
	CapSignAgreement    Capability = "sign_agreement"
)

var roleCapabilities = map[Role]map[Capability]bool{
	RoleAdmin: {
		CapManageAccounts:  true,
		CapManageClients:   true,
		CapManageEngineers: true,
		CapManageServices:  true,
		CapManageQuotes:    true,
		CapViewAllOrders:   true,
		CapScheduleOrder:   true,
		CapOverrideStatus:  true,
		CapDeleteOrder:     true,
		CapFlagRevisit:     true,
		CapViewStatistics:  true,
		CapSendMessage:     true,
		CapUploadPhoto:     true,
	},
	RoleEngineer: {
		CapAdvanceJobStatus: true,
		CapToggleChecklist:  true,
		CapFlagRevisit:      true,
		CapSendMessage:      true,
		CapUploadPhoto:      true,
	},
	RoleClient: {
		CapSendMessage:   true,
		CapPayOrder:      true,
		CapSignAgreement: true,
	},
}

func (r Role) Can(cap Capability) bool {
	caps, ok := roleCapabilities[r]
	if !ok {
		return false
	}
	return caps[cap]
}

func (r Role) Valid() bool {
	_, ok := roleCapabilities[r]
	return ok
}
