package admin

import (
	"pointsbot/service"
)

type Feature struct {
	adminService service.AdminService
}

func New(adminService service.AdminService) *Feature {
	return &Feature{
		adminService: adminService,
	}
}
