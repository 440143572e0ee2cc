package gateway

import (
	"context"
	"net/http"

	"github.com/simp-lee/memberbase/internal/domain"
	"github.com/simp-lee/memberbase/internal/notify"
)

// Endpoints names the admin paths of one entity. Update and Delete are
// prefixes: the record ID is appended as a path segment, matching the
// server's routing. Empty entries mean the entity does not support that
// operation.
type Endpoints struct {
	List   string
	Create string
	Update string
	Delete string
	Toggle string
}

// Resource is the typed gateway for one entity. Listing follows the admin
// convention of POST with the query in the body; mutations use POST, PUT,
// and DELETE per endpoint. All user-facing failure reporting happens in the
// underlying Client.
type Resource[T any] struct {
	client *Client
	label  string
	plural string
	ep     Endpoints
}

// NewResource creates a Resource. label and plural appear in fallback
// messages when the server fails without a message of its own ("Failed to
// add caste", "No castes found").
func NewResource[T any](client *Client, label, plural string, ep Endpoints) *Resource[T] {
	return &Resource[T]{
		client: client,
		label:  label,
		plural: plural,
		ep:     ep,
	}
}

// List fetches one page matching the query.
func (r *Resource[T]) List(ctx context.Context, q domain.ListQuery) (*domain.PagedCollection[T], error) {
	var page domain.PagedCollection[T]
	err := r.client.Do(ctx, call{
		method:   http.MethodPost,
		path:     r.ep.List,
		body:     q.Body(),
		fallback: "No " + r.plural + " found",
		severity: notify.SeverityWarning,
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// Create adds a record from the given request body and returns the created
// record.
func (r *Resource[T]) Create(ctx context.Context, body any) (*T, error) {
	var created T
	err := r.client.Do(ctx, call{
		method:   http.MethodPost,
		path:     r.ep.Create,
		body:     body,
		fallback: "Failed to add " + r.label,
	}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// CreateMultipart adds a record from an explicit multipart form (fields plus
// file parts) and returns the created record.
func (r *Resource[T]) CreateMultipart(ctx context.Context, form *Form) (*T, error) {
	body, contentType, err := form.Encode()
	if err != nil {
		// The form never reached the server, but the caller still gets the
		// usual one-notification-then-error contract.
		r.client.notifier.Notify(notify.SessionIDFromContext(ctx), err.Error(), notify.SeverityWarning)
		return nil, domain.NewAppError(domain.CodeValidation, err.Error(), err)
	}

	var created T
	err = r.client.Do(ctx, call{
		method:      http.MethodPost,
		path:        r.ep.Create,
		raw:         body,
		contentType: contentType,
		fallback:    "Failed to add " + r.label,
	}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Update replaces the addressed record's fields with the request body.
func (r *Resource[T]) Update(ctx context.Context, id string, body any) (*T, error) {
	var updated T
	err := r.client.Do(ctx, call{
		method:   http.MethodPut,
		path:     r.ep.Update + "/" + id,
		body:     body,
		fallback: "Failed to update " + r.label,
	}, &updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the addressed record.
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	return r.client.Do(ctx, call{
		method:   http.MethodDelete,
		path:     r.ep.Delete + "/" + id,
		body:     map[string]any{},
		fallback: "Failed to delete " + r.label,
	}, nil)
}

// SetActive flips the record's active flag to the given value.
func (r *Resource[T]) SetActive(ctx context.Context, id string, active bool) error {
	return r.client.Do(ctx, call{
		method: http.MethodPost,
		path:   r.ep.Toggle,
		body: map[string]any{
			"_id":      id,
			"isActive": active,
		},
		fallback: "Failed to update " + r.label,
	}, nil)
}
