package inbound

import (
	"github.com/prasetyoadi/rolodex/internal/directory/entity"
	"github.com/prasetyoadi/rolodex/internal/directory/usecase"
	"github.com/prasetyoadi/rolodex/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for contact management workflows.
type HTTPEndpoint struct {
	uc uc
}

func contactResponse(c entity.Contact) ContactResponse {
	return ContactResponse{
		ID:          c.ID,
		FullName:    c.FullName,
		Email:       c.Email,
		BackupEmail: c.BackupEmail,
		Status:      c.Status,
		Labels:      c.Labels,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		ArchivedAt:  c.ArchivedAt,
	}
}

// ContactCreate registers a new contact in the directory.
// @Summary Create contact
// @Description Creates a contact after field validation and publishes a verification request. Supports the Idempotency-Key header for safe retries.
// @Tags Directory, Contacts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body ContactCreateRequest true "Contact payload"
// @Success 200 {object} router.successResponse{data=ContactCreateResponse} "Created contact"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 409 {object} router.errorResponse "Email already registered"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/directory/contacts [post]
func (h *HTTPEndpoint) ContactCreate(r *router.Request) (any, error) {
	var req ContactCreateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.ContactCreate(r.Context(), usecase.ContactCreateInput{
		FullName:       req.FullName,
		Email:          req.Email,
		BackupEmail:    req.BackupEmail,
		Labels:         req.Labels,
		IdempotencyKey: r.Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return nil, err
	}

	return ContactCreateResponse{ID: resp.ContactID}, nil
}

// ContactUpdate replaces the mutable fields of a contact.
// @Summary Update contact
// @Description Updates a contact. The same field rules as creation apply.
// @Tags Directory, Contacts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Contact ID"
// @Param request body ContactUpdateRequest true "Contact payload"
// @Success 200 {object} router.successResponse "Updated"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 404 {object} router.errorResponse "Contact not found"
// @Failure 409 {object} router.errorResponse "Email already registered"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/directory/contacts/{id} [put]
func (h *HTTPEndpoint) ContactUpdate(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req ContactUpdateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	err = h.uc.ContactUpdate(r.Context(), usecase.ContactUpdateInput{
		ID:          id,
		FullName:    req.FullName,
		Email:       req.Email,
		BackupEmail: req.BackupEmail,
		Labels:      req.Labels,
	})
	if err != nil {
		return nil, err
	}

	return nil, nil
}

// ContactDetail returns one contact.
// @Summary Get contact detail
// @Description Returns contact details for a given contact ID.
// @Tags Directory, Contacts
// @Security BearerAuth
// @Produce json
// @Param id path int true "Contact ID"
// @Success 200 {object} router.successResponse{data=ContactDetailResponse} "Contact detail"
// @Failure 400 {object} router.errorResponse "Invalid path parameter"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 404 {object} router.errorResponse "Contact not found"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/directory/contacts/{id} [get]
func (h *HTTPEndpoint) ContactDetail(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.ContactDetail(r.Context(), usecase.ContactDetailInput{ID: id})
	if err != nil {
		return nil, err
	}

	return ContactDetailResponse{Contact: contactResponse(resp.Contact)}, nil
}

// ContactList returns a list of contacts with optional filters.
// @Summary List contacts
// @Description Returns a paginated list of contacts with optional search and status filters.
// @Tags Directory, Contacts
// @Security BearerAuth
// @Produce json
// @Param search query string false "Search by email or full name"
// @Param sort_by query string false "Sort by email, full name and etc."
// @Param sort_order query string false "Sort order asc or desc"
// @Param status query []int false "Filter by statuses (1=pending|2=verified|3=archived)"
// @Param size query int false "Pagination size"
// @Param page query int false "Pagination page"
// @Success 200 {object} router.successResponse{data=ContactsResponse} "Contact list"
// @Failure 400 {object} router.errorResponse "Invalid query parameters"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/directory/contacts [get]
func (h *HTTPEndpoint) ContactList(r *router.Request) (any, error) {
	size, err := r.GetQueryInt32("size")
	if err != nil {
		return nil, err
	}

	page, err := r.GetQueryInt32("page")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.ContactList(r.Context(), usecase.ContactListInput{
		Search:    r.GetQuery("search"),
		Statuses:  r.GetQueries("status"),
		SortBy:    r.GetQuery("sort_by"),
		SortOrder: r.GetQuery("sort_order"),
		Size:      size,
		Page:      page,
	})
	if err != nil {
		return nil, err
	}

	contacts := make([]ContactResponse, 0, len(resp.Contacts))
	for _, item := range resp.Contacts {
		contacts = append(contacts, contactResponse(item))
	}

	return ContactsResponse{
		total:    resp.Total,
		size:     resp.Size,
		page:     resp.Page,
		Contacts: contacts,
	}, nil
}

// ContactArchive soft deletes a contact.
// @Summary Archive contact
// @Description Archives a contact. Archived contacts are hidden from listings but keep their history.
// @Tags Directory, Contacts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Contact ID"
// @Param request body ContactArchiveRequest false "Archive payload"
// @Success 200 {object} router.successResponse "Archived"
// @Failure 400 {object} router.errorResponse "Invalid path parameter"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 404 {object} router.errorResponse "Contact not found"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/directory/contacts/{id} [delete]
func (h *HTTPEndpoint) ContactArchive(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req ContactArchiveRequest
	if r.ContentLength > 0 {
		if err := r.DecodeBody(&req); err != nil {
			return nil, err
		}
	}

	if err := h.uc.ContactArchive(r.Context(), usecase.ContactArchiveInput{ID: id, Reason: req.Reason}); err != nil {
		return nil, err
	}

	return nil, nil
}

// ContactVerify confirms a contact's primary address with an emailed token.
// @Summary Verify contact address
// @Description Consumes a verification token and marks the contact as verified.
// @Tags Directory, Contacts
// @Accept json
// @Produce json
// @Param request body ContactVerifyRequest true "Verification payload"
// @Success 200 {object} router.successResponse "Verified"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid or expired token"
// @Failure 403 {object} router.errorResponse "Contact archived"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/directory/contacts/verify [post]
func (h *HTTPEndpoint) ContactVerify(r *router.Request) (any, error) {
	var req ContactVerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.ContactVerify(r.Context(), usecase.ContactVerifyInput{Token: req.Token}); err != nil {
		return nil, err
	}

	return nil, nil
}

// ContactImport bulk upserts contacts keyed by email.
// @Summary Import contacts
// @Description Upserts a batch of contacts. One invalid row rejects the whole batch.
// @Tags Directory, Contacts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body ContactImportRequest true "Import payload"
// @Success 200 {object} router.successResponse{data=ContactImportResponse} "Import result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/directory/contacts-import [post]
func (h *HTTPEndpoint) ContactImport(r *router.Request) (any, error) {
	var req ContactImportRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	contacts := make([]usecase.ContactImportContactInput, 0, len(req))
	for _, item := range req {
		contacts = append(contacts, usecase.ContactImportContactInput{
			FullName:    item.FullName,
			Email:       item.Email,
			BackupEmail: item.BackupEmail,
			Status:      item.Status,
			Labels:      item.Labels,
		})
	}

	resp, err := h.uc.ContactImport(r.Context(), usecase.ContactImportInput{
		Contacts:       contacts,
		IdempotencyKey: r.Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return nil, err
	}

	return ContactImportResponse{Created: resp.Created, Updated: resp.Updated}, nil
}

// ContactExport writes matching contacts to a CSV object.
// @Summary Export contacts
// @Description Exports the matching contacts as CSV and returns a presigned download URL.
// @Tags Directory, Contacts
// @Security BearerAuth
// @Produce json
// @Param search query string false "Search by email or full name"
// @Param sort_by query string false "Sort by email, full name and etc."
// @Param sort_order query string false "Sort order asc or desc"
// @Param status query []int false "Filter by statuses (1=pending|2=verified|3=archived)"
// @Success 200 {object} router.successResponse{data=ContactExportResponse} "Export result"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/directory/contacts-export [get]
func (h *HTTPEndpoint) ContactExport(r *router.Request) (any, error) {
	resp, err := h.uc.ContactExport(r.Context(), usecase.ContactExportInput{
		Search:    r.GetQuery("search"),
		Statuses:  r.GetQueries("status"),
		SortBy:    r.GetQuery("sort_by"),
		SortOrder: r.GetQuery("sort_order"),
	})
	if err != nil {
		return nil, err
	}

	return ContactExportResponse{
		URL:       resp.URL,
		Total:     resp.Total,
		ExpiresAt: resp.ExpiresAt,
	}, nil
}
