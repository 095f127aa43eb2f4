package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workflow-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-workflow-go/internal/handler/http/response"
)

const maxUploadSize = 10 << 20

var errNoFile = errors.New("no file")

// ==================== HELPER FUNCTIONS ====================

// callerWorker returns the identity and the worker it acts as, writing the error response
// when the caller has no worker record.
func callerWorker(w http.ResponseWriter, r *http.Request) (user.Identity, string, bool) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return user.Identity{}, "", false
	}
	if !identity.HasWorker() {
		response.HandleError(w, user.ErrWorkerNotLinked)
		return user.Identity{}, "", false
	}
	return identity, *identity.WorkerID, true
}

func identityFrom(w http.ResponseWriter, r *http.Request) (user.Identity, bool) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.HandleError(w, user.ErrInvalidToken)
	}
	return identity, ok
}

// canView reports whether the caller may see data owned by workerID
func canView(identity user.Identity, workerID string, permission user.Permission) bool {
	if identity.HasWorker() && *identity.WorkerID == workerID {
		return true
	}
	return user.HasPermission(identity.Role, permission)
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// decodeMultipart reads the JSON "data" field into dst and returns the optional file part
func decodeMultipart(r *http.Request, dst any, fileField string) (multipart.File, *multipart.FileHeader, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, nil, err
	}

	if data := r.FormValue("data"); data != "" {
		if err := json.Unmarshal([]byte(data), dst); err != nil {
			return nil, nil, err
		}
	}

	file, header, err := r.FormFile(fileField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, errNoFile
	}
	if err != nil {
		return nil, nil, err
	}
	return file, header, nil
}

// decodeWithFile accepts either a JSON body or a multipart form with a "data" JSON field
// plus an optional file. The returned closer is never nil.
func decodeWithFile(r *http.Request, dst any, fileField string) (io.Reader, *multipart.FileHeader, func(), error) {
	noop := func() {}
	if !isMultipart(r) {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			return nil, nil, noop, err
		}
		return nil, nil, noop, nil
	}

	file, header, err := decodeMultipart(r, dst, fileField)
	if errors.Is(err, errNoFile) {
		return nil, nil, noop, nil
	}
	if err != nil {
		return nil, nil, noop, err
	}
	return file, header, func() { file.Close() }, nil
}

func listFilterFromQuery(r *http.Request) approval.ListFilter {
	q := r.URL.Query()
	filter := approval.ListFilter{}

	if status := q.Get("status"); status != "" {
		s := approval.Status(strings.ToUpper(status))
		filter.Status = &s
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(q.Get("offset")); err == nil && offset > 0 {
		filter.Offset = offset
	}
	return filter
}

func listMeta(filter approval.ListFilter) *response.Meta {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	return &response.Meta{
		Page:  filter.Offset/limit + 1,
		Limit: limit,
	}
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
