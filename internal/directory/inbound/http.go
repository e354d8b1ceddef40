package inbound

import (
	"context"

	"github.com/prasetyoadi/rolodex/internal/directory/usecase"
	"github.com/prasetyoadi/rolodex/internal/pkg/router"
)

type uc interface {
	ContactCreate(ctx context.Context, in usecase.ContactCreateInput) (*usecase.ContactCreateOutput, error)
	ContactUpdate(ctx context.Context, in usecase.ContactUpdateInput) error
	ContactDetail(ctx context.Context, in usecase.ContactDetailInput) (*usecase.ContactDetailOutput, error)
	ContactList(ctx context.Context, in usecase.ContactListInput) (*usecase.ContactListOutput, error)
	ContactArchive(ctx context.Context, in usecase.ContactArchiveInput) error
	ContactVerify(ctx context.Context, in usecase.ContactVerifyInput) error
	ContactImport(ctx context.Context, in usecase.ContactImportInput) (*usecase.ContactImportOutput, error)
	ContactExport(ctx context.Context, in usecase.ContactExportInput) (*usecase.ContactExportOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Contacts (need authenticated & authorization)
	r.GET("/api/v1/directory/contacts", end.ContactList)
	r.GET("/api/v1/directory/contacts/:id", end.ContactDetail)
	r.POST("/api/v1/directory/contacts", end.ContactCreate)
	r.PUT("/api/v1/directory/contacts/:id", end.ContactUpdate)
	r.DELETE("/api/v1/directory/contacts/:id", end.ContactArchive)
	r.GET("/api/v1/directory/contacts-export", end.ContactExport)
	r.POST("/api/v1/directory/contacts-import", end.ContactImport)

	// Verification (public, token is the proof)
	r.POST("/api/v1/directory/contacts/verify", end.ContactVerify)
}
