package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/prasetyoadi/rolodex/internal/directory/entity"
	"github.com/prasetyoadi/rolodex/internal/pkg/goerror"
	"github.com/prasetyoadi/rolodex/internal/pkg/storage"
	"github.com/prasetyoadi/rolodex/internal/shared/constant"
)

const contactExportPageSize int32 = 1_000

type (
	ContactExportInput struct {
		Search    string
		Statuses  []string
		SortBy    string
		SortOrder string
	}

	ContactExportOutput struct {
		URL       string
		Total     int64
		ExpiresAt time.Time
	}
)

// ContactExport writes the matching contacts to a CSV object and returns a
// presigned download URL instead of streaming rows over the API response.
func (s *Usecase) ContactExport(ctx context.Context, in ContactExportInput) (*ContactExportOutput, error) {
	ctx, span := s.startSpan(ctx, "ContactExport")
	defer span.End()

	clm, err := s.authenticatedAndAuthorized(ctx, constant.PermDirectoryContacts, constant.PermActExport)
	if err != nil {
		return nil, err
	}

	filterData := entity.ContactListFilterData{
		OrderBy:        in.SortBy,
		OrderDirection: in.SortOrder,
		Search:         in.Search,
		Statuses:       entity.ToInt16Slice(entity.ParseSafeContactStatuses(in.Statuses)),
		Size:           contactExportPageSize,
		Page:           0,
	}
	if in.Search != "" {
		filterData.IsFilterBySearch = true
	}
	if len(filterData.Statuses) > 0 {
		filterData.IsFilterByStatus = true
	}

	var (
		contacts []entity.Contact
		page     int32 = 1
		total    int64
	)

	for {
		filterData.Page = (page - 1) * contactExportPageSize

		pageContacts, count, err := s.repoDB.GetContactList(ctx, filterData)
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo export contacts", "error", err)
			return nil, goerror.NewServer(err)
		}

		if page == 1 {
			total = count
			if total == 0 {
				break
			}
			contacts = make([]entity.Contact, 0, min(total, int64(contactExportPageSize)))
		}

		contacts = append(contacts, pageContacts...)

		if int64(len(contacts)) >= total || len(pageContacts) == 0 {
			break
		}

		page++
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"id", "full_name", "email", "backup_email", "status", "created_at", "updated_at"}); err != nil {
		return nil, goerror.NewServer(err)
	}
	for _, c := range contacts {
		record := []string{
			strconv.FormatInt(c.ID, 10),
			c.FullName,
			c.Email,
			c.BackupEmail,
			c.Status.String(),
			c.CreatedAt.UTC().Format(time.RFC3339),
			c.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, goerror.NewServer(err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, goerror.NewServer(err)
	}

	bucket := strings.TrimSpace(s.cfg.GetString("modules.directory.export_bucket"))
	expiry := s.cfg.GetMinute("modules.directory.export_url_ttl_minutes")
	key := fmt.Sprintf("exports/%d/%s.csv", clm.UserID, s.uuid.Generate())

	_, err = s.storage.PutObject(ctx, bucket, key, &buf, storage.PutOptions{
		Size:        int64(buf.Len()),
		ContentType: "text/csv",
		Metadata:    map[string]string{"exported_by": strconv.FormatInt(clm.UserID, 10)},
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to upload contact export", "key", key, "error", err)
		return nil, goerror.NewServer(err)
	}

	url, err := s.storage.PresignGet(ctx, bucket, key, expiry)
	if err != nil {
		slog.ErrorContext(ctx, "failed to presign contact export", "key", key, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ContactExportOutput{
		URL:       url,
		Total:     total,
		ExpiresAt: s.clock.Now().Add(expiry),
	}, nil
}
