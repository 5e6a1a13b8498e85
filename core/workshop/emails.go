package workshop

import (
	"net/mail"

	"github.com/tspagiari/oficinas/core"
)

type statusMailData struct {
	Request     Request
	StatusLabel string
	UpdatedDate string
}

func (svc *service) staffAddress() []mail.Address {
	return []mail.Address{{Address: svc.conf.StaffEmail}}
}

func (svc *service) sendNewRequestMail(req Request) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           svc.staffAddress(),
		Subject:      "Nova Solicitação de Oficina - " + req.SchoolName,
		TemplateName: "new-request",
		TemplateData: req,
	})
}

func (svc *service) sendStatusUpdateMail(req Request) {
	label := "Rejeitada"
	if req.Status == StatusApproved {
		label = "Aprovada"
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           svc.staffAddress(),
		Subject:      "Atualização de Status - Solicitação de Oficina - " + req.SchoolName,
		TemplateName: "request-status",
		TemplateData: statusMailData{
			Request:     req,
			StatusLabel: label,
			UpdatedDate: req.UpdatedAt.Format("02/01/2006"),
		},
	})
}
