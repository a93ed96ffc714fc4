package httpapi

import "github.com/example/taskapi/internal/ports/primary"

type userResource struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func toUserResource(u *primary.User) userResource {
	return userResource{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

type taskTypeResource struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

func toTaskTypeResource(t *primary.TaskType) taskTypeResource {
	return taskTypeResource{ID: t.ID, Name: t.Name, Status: t.Status}
}

type taskResource struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Status      string  `json:"status"`
	Description *string `json:"description"`
	StartDate   string  `json:"start_date"`
	Deadline    *string `json:"deadline"`
	EndDate     *string `json:"end_date"`
	TaskTypeID  string  `json:"task_type_id"`
	Type        string  `json:"type"`
	OwnerID     string  `json:"owner_id"`
	Owner       string  `json:"owner"`
}

func toTaskResource(t *primary.Task) taskResource {
	return taskResource{
		ID:          t.ID,
		Title:       t.Title,
		Status:      t.Status,
		Description: nullable(t.Description),
		StartDate:   t.StartDate,
		Deadline:    nullable(t.Deadline),
		EndDate:     nullable(t.EndDate),
		TaskTypeID:  t.TaskTypeID,
		Type:        t.TypeName,
		OwnerID:     t.OwnerID,
		Owner:       t.OwnerName,
	}
}

type auditResource struct {
	ID         string  `json:"id"`
	ActorID    *string `json:"actor_id"`
	EntityType string  `json:"entity_type"`
	EntityID   string  `json:"entity_id"`
	Action     string  `json:"action"`
	FieldName  *string `json:"field_name"`
	OldValue   *string `json:"old_value"`
	NewValue   *string `json:"new_value"`
	CreatedAt  string  `json:"created_at"`
}

func toAuditResource(e *primary.AuditEntry) auditResource {
	return auditResource{
		ID:         e.ID,
		ActorID:    nullable(e.ActorID),
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Action:     e.Action,
		FieldName:  nullable(e.FieldName),
		OldValue:   nullable(e.OldValue),
		NewValue:   nullable(e.NewValue),
		CreatedAt:  e.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

type authResource struct {
	User  userResource `json:"user"`
	Token string       `json:"token"`
}

// mapSlice converts each element of in.
func mapSlice[S, T any](in []S, convert func(S) T) []T {
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = convert(v)
	}
	return out
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
