package app

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/example/taskapi/internal/apperr"
	"github.com/example/taskapi/internal/ports/primary"
	"github.com/example/taskapi/internal/ports/secondary"
)

const workTypeID = "11111111-1111-4111-8111-111111111111"

type taskFixture struct {
	service *TaskServiceImpl
	tasks   *mockTaskRepository
	types   *mockTaskTypeRepository
	tx      *mockTransactor
	audit   *mockAuditWriter
}

func newTestTaskService() *taskFixture {
	f := &taskFixture{
		tasks: newMockTaskRepository(),
		types: newMockTaskTypeRepository(),
		tx:    &mockTransactor{},
		audit: &mockAuditWriter{},
	}
	f.types.types[workTypeID] = &secondary.TaskTypeRecord{ID: workTypeID, Name: "Work", Status: "visible"}
	f.service = NewTaskService(f.tasks, f.types, f.tx, f.audit, discardLogger())
	return f
}

func createReq(title, start, deadline string) primary.CreateTaskRequest {
	return primary.CreateTaskRequest{
		Title:      strPtr(title),
		StartDate:  strPtr(start),
		Deadline:   strPtr(deadline),
		TaskTypeID: strPtr(workTypeID),
	}
}

func mustCreate(t *testing.T, f *taskFixture, p primary.Principal, title, start, deadline string) *primary.Task {
	t.Helper()
	created, err := f.service.Create(context.Background(), p, createReq(title, start, deadline))
	if err != nil {
		t.Fatalf("Create(%s) failed: %v", title, err)
	}
	return created
}

func TestTaskService_Create_OverlapScenario(t *testing.T) {
	f := newTestTaskService()
	ctx := context.Background()

	// A: Tue..Fri
	a := mustCreate(t, f, alice, "A", "2023-10-31", "2023-11-03")
	if a.OwnerID != alice.ID || a.Status != "pending" {
		t.Errorf("unexpected task A: %+v", a)
	}

	// B: same owner, overlapping Thu..Fri
	_, err := f.service.Create(ctx, alice, createReq("B", "2023-11-02", "2023-11-03"))
	if !errors.Is(err, apperr.ErrOverlappingWindow) {
		t.Fatalf("expected ErrOverlappingWindow, got %v", err)
	}
	if apperr.StatusCode(err) != 409 {
		t.Errorf("expected 409, got %d", apperr.StatusCode(err))
	}

	// C: identical dates, different owner
	mustCreate(t, f, bob, "C", "2023-11-02", "2023-11-03")

	if len(f.tasks.tasks) != 2 {
		t.Errorf("expected 2 stored tasks, got %d", len(f.tasks.tasks))
	}
}

func TestTaskService_Create_SharedBoundaryDayConflicts(t *testing.T) {
	f := newTestTaskService()
	mustCreate(t, f, alice, "A", "2023-10-31", "2023-11-03")

	_, err := f.service.Create(context.Background(), alice, createReq("B", "2023-11-03", "2023-11-06"))
	if !errors.Is(err, apperr.ErrOverlappingWindow) {
		t.Errorf("expected ErrOverlappingWindow on shared boundary, got %v", err)
	}

	mustCreate(t, f, alice, "next week", "2023-11-06", "2023-11-07")
}

func TestTaskService_Create_WeekendCheckedBeforeConflict(t *testing.T) {
	f := newTestTaskService()
	mustCreate(t, f, alice, "A", "2023-10-31", "2023-11-03")

	// Overlaps A and ends on a Sunday: the weekend rule fires first.
	_, err := f.service.Create(context.Background(), alice, createReq("B", "2023-11-02", "2023-11-05"))
	if !errors.Is(err, apperr.ErrWeekendDate) {
		t.Fatalf("expected ErrWeekendDate, got %v", err)
	}
	if errors.Is(err, apperr.ErrOverlappingWindow) {
		t.Error("conflict detector must not run after a weekend failure")
	}
}

func TestTaskService_Create_SaturdayStart(t *testing.T) {
	f := newTestTaskService()

	_, err := f.service.Create(context.Background(), alice, createReq("Sat", "2023-10-28", "2023-10-30"))
	if !errors.Is(err, apperr.ErrWeekendDate) {
		t.Fatalf("expected ErrWeekendDate, got %v", err)
	}
	if !errors.Is(err, apperr.ErrSchedulingConflict) {
		t.Error("weekend error should also be a scheduling conflict")
	}
	if apperr.StatusCode(err) != 422 {
		t.Errorf("expected 422, got %d", apperr.StatusCode(err))
	}
	if f.tx.calls != 0 {
		t.Error("no transaction should open for a rejected request")
	}
}

func TestTaskService_Create_Validation(t *testing.T) {
	f := newTestTaskService()

	tests := []struct {
		name      string
		req       primary.CreateTaskRequest
		wantField string
	}{
		{"missing title", primary.CreateTaskRequest{StartDate: strPtr("2023-10-30"), Deadline: strPtr("2023-10-31"), TaskTypeID: strPtr(workTypeID)}, "title"},
		{"deadline before start", createReq("x", "2023-10-31", "2023-10-30"), "deadline"},
		{"unknown type", primary.CreateTaskRequest{Title: strPtr("x"), StartDate: strPtr("2023-10-30"), Deadline: strPtr("2023-10-31"), TaskTypeID: strPtr("22222222-2222-4222-8222-222222222222")}, "task_type_id"},
		{"bad status", primary.CreateTaskRequest{Title: strPtr("x"), StartDate: strPtr("2023-10-30"), Deadline: strPtr("2023-10-31"), TaskTypeID: strPtr(workTypeID), Status: strPtr("archived")}, "status"},
		{"bad date", createReq("x", "31/10/2023", "2023-10-31"), "start_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Create(context.Background(), alice, tt.req)
			e, ok := apperr.As(err)
			if !ok || !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if _, ok := e.Fields[tt.wantField]; !ok {
				t.Errorf("expected field %q in %v", tt.wantField, e.Fields)
			}
		})
	}
}

func TestTaskService_Create_Unauthenticated(t *testing.T) {
	f := newTestTaskService()

	_, err := f.service.Create(context.Background(), primary.Principal{}, createReq("x", "2023-10-30", "2023-10-31"))
	if !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestTaskService_Create_StorageFailureIsInternal(t *testing.T) {
	f := newTestTaskService()
	f.tasks.createErr = errStorage

	_, err := f.service.Create(context.Background(), alice, createReq("x", "2023-10-30", "2023-10-31"))
	if !errors.Is(err, apperr.ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
	if errors.Is(err, errStorage) {
		t.Error("storage details must not leak")
	}
}

func TestTaskService_Create_AuditsCreation(t *testing.T) {
	f := newTestTaskService()
	created := mustCreate(t, f, alice, "A", "2023-10-31", "2023-11-03")

	if len(f.audit.entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(f.audit.entries))
	}
	got := f.audit.entries[0]
	if got.action != "create" || got.entityID != created.ID || got.actorID != alice.ID {
		t.Errorf("unexpected audit entry %+v", got)
	}
}

func TestTaskService_Update_TitleOnlySkipsScheduling(t *testing.T) {
	f := newTestTaskService()
	a := mustCreate(t, f, alice, "A", "2023-10-31", "2023-11-03")

	// An overlapping sibling makes any conflict check fail if it ran.
	f.tasks.put(&secondary.TaskRecord{ID: "other", OwnerID: alice.ID, StartDate: "2023-10-30", Deadline: "2023-11-04", Status: "pending", TaskTypeID: workTypeID})

	updated, err := f.service.Update(context.Background(), alice, primary.UpdateTaskRequest{
		TaskID: a.ID,
		Title:  strPtr("A renamed"),
	})
	if err != nil {
		t.Fatalf("title-only update failed: %v", err)
	}
	if updated.Title != "A renamed" || updated.StartDate != "2023-10-31" {
		t.Errorf("unexpected task after update: %+v", updated)
	}
}

func TestTaskService_Update_BothDatesRecheckExcludingSelf(t *testing.T) {
	f := newTestTaskService()
	a := mustCreate(t, f, alice, "A", "2023-10-31", "2023-11-03")
	mustCreate(t, f, alice, "B", "2023-11-06", "2023-11-07")

	// Shifting A within its own window is fine.
	if _, err := f.service.Update(context.Background(), alice, primary.UpdateTaskRequest{
		TaskID: a.ID, StartDate: strPtr("2023-11-01"), Deadline: strPtr("2023-11-02"),
	}); err != nil {
		t.Fatalf("expected self-overlap to be ignored, got %v", err)
	}

	// Moving A onto B conflicts.
	_, err := f.service.Update(context.Background(), alice, primary.UpdateTaskRequest{
		TaskID: a.ID, StartDate: strPtr("2023-11-07"), Deadline: strPtr("2023-11-08"),
	})
	if !errors.Is(err, apperr.ErrOverlappingWindow) {
		t.Errorf("expected ErrOverlappingWindow, got %v", err)
	}
}

func TestTaskService_Update_SingleDateSkipsConflictButNotWeekend(t *testing.T) {
	f := newTestTaskService()
	a := mustCreate(t, f, alice, "A", "2023-10-31", "2023-11-01")
	mustCreate(t, f, alice, "B", "2023-11-06", "2023-11-07")

	// Deadline alone onto B's window: conflict detector does not run.
	if _, err := f.service.Update(context.Background(), alice, primary.UpdateTaskRequest{
		TaskID: a.ID, Deadline: strPtr("2023-11-06"),
	}); err != nil {
		t.Fatalf("expected single-date update to skip conflict check, got %v", err)
	}

	// A weekend deadline is still rejected.
	_, err := f.service.Update(context.Background(), alice, primary.UpdateTaskRequest{
		TaskID: a.ID, Deadline: strPtr("2023-11-04"),
	})
	if !errors.Is(err, apperr.ErrWeekendDate) {
		t.Errorf("expected ErrWeekendDate, got %v", err)
	}
}

func TestTaskService_Update_DeadlineValidatedAgainstStoredStart(t *testing.T) {
	f := newTestTaskService()
	a := mustCreate(t, f, alice, "A", "2023-10-31", "2023-11-01")

	_, err := f.service.Update(context.Background(), alice, primary.UpdateTaskRequest{
		TaskID: a.ID, Deadline: strPtr("2023-10-30"),
	})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestTaskService_Update_StartValidatedAgainstStoredDates(t *testing.T) {
	tests := []struct {
		name      string
		endDate   string
		patch     primary.UpdateTaskRequest
		wantField string // empty means the update succeeds
	}{
		{
			name:      "start after stored deadline",
			patch:     primary.UpdateTaskRequest{StartDate: strPtr("2023-11-08")},
			wantField: "start_date",
		},
		{
			name:      "start after stored end date",
			endDate:   "2023-10-30",
			patch:     primary.UpdateTaskRequest{StartDate: strPtr("2023-10-31")},
			wantField: "start_date",
		},
		{
			name:  "start on stored deadline",
			patch: primary.UpdateTaskRequest{StartDate: strPtr("2023-10-31")},
		},
		{
			name:  "start moved with deadline",
			patch: primary.UpdateTaskRequest{StartDate: strPtr("2023-11-08"), Deadline: strPtr("2023-11-09")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestTaskService()
			ctx := context.Background()
			a := mustCreate(t, f, alice, "A", "2023-10-30", "2023-10-31")
			if tt.endDate != "" {
				stored, _ := f.tasks.GetByID(ctx, a.ID)
				stored.EndDate = tt.endDate
				f.tasks.put(stored)
			}

			tt.patch.TaskID = a.ID
			_, err := f.service.Update(ctx, alice, tt.patch)

			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Update failed: %v", err)
				}
				return
			}
			e, ok := apperr.As(err)
			if !ok || !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if e.Fields[tt.wantField] == "" {
				t.Errorf("expected %s error, got %v", tt.wantField, e.Fields)
			}
			stored, _ := f.tasks.GetByID(ctx, a.ID)
			if stored.StartDate != "2023-10-30" || stored.Deadline != "2023-10-31" {
				t.Errorf("rejected update changed the task: %+v", stored)
			}
		})
	}
}

func TestTaskService_Update_AuditsChangedFields(t *testing.T) {
	f := newTestTaskService()
	a := mustCreate(t, f, alice, "A", "2023-10-31", "2023-11-01")
	f.audit.entries = nil

	_, err := f.service.Update(context.Background(), alice, primary.UpdateTaskRequest{
		TaskID: a.ID, Status: strPtr("done"), Title: strPtr("A"),
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if len(f.audit.entries) != 1 {
		t.Fatalf("expected only the status change audited, got %+v", f.audit.entries)
	}
	if e := f.audit.entries[0]; e.field != "status" || e.old != "pending" || e.new != "done" {
		t.Errorf("unexpected audit entry %+v", e)
	}
}

func TestTaskService_Ownership(t *testing.T) {
	f := newTestTaskService()
	ctx := context.Background()
	a := mustCreate(t, f, alice, "A", "2023-10-31", "2023-11-01")

	if _, err := f.service.FindOne(ctx, bob, a.ID); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("FindOne by non-owner: expected ErrUnauthorized, got %v", err)
	}
	if _, err := f.service.Update(ctx, bob, primary.UpdateTaskRequest{TaskID: a.ID, Title: strPtr("mine")}); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("Update by non-owner: expected ErrUnauthorized, got %v", err)
	}
	if err := f.service.Delete(ctx, bob, a.ID); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("Delete by non-owner: expected ErrUnauthorized, got %v", err)
	}
	if _, err := f.service.FindOne(ctx, adminPrincipal, a.ID); err != nil {
		t.Errorf("administrator should read any task, got %v", err)
	}
}

func TestTaskService_Delete_SecondDeleteIsNotFound(t *testing.T) {
	f := newTestTaskService()
	ctx := context.Background()
	a := mustCreate(t, f, alice, "A", "2023-10-31", "2023-11-01")

	if err := f.service.Delete(ctx, alice, a.ID); err != nil {
		t.Fatalf("first delete failed: %v", err)
	}
	err := f.service.Delete(ctx, alice, a.ID)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestTaskService_FindAll_ScopedToOwner(t *testing.T) {
	f := newTestTaskService()
	ctx := context.Background()
	mustCreate(t, f, alice, "A", "2023-10-31", "2023-11-01")
	mustCreate(t, f, bob, "B", "2023-10-31", "2023-11-01")

	own, err := f.service.FindAll(ctx, alice)
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	if len(own) != 1 || own[0].Title != "A" {
		t.Errorf("expected only Alice's task, got %+v", own)
	}

	all, _ := f.service.FindAll(ctx, adminPrincipal)
	if len(all) != 2 {
		t.Errorf("administrator should see 2 tasks, got %d", len(all))
	}
}

func TestTaskService_FindAllMatches(t *testing.T) {
	f := newTestTaskService()
	ctx := context.Background()
	mustCreate(t, f, alice, "Write report", "2023-10-30", "2023-10-31")
	mustCreate(t, f, alice, "Review", "2023-11-01", "2023-11-02")
	mustCreate(t, f, alice, "Write tests", "2023-11-06", "2023-11-07")

	page, err := f.service.FindAllMatches(ctx, alice, primary.TaskQuery{
		MatchQuery: primary.MatchQuery{Search: "write", PerPage: 1, Page: 2, OrderBy: "title-desc"},
	})
	if err != nil {
		t.Fatalf("FindAllMatches failed: %v", err)
	}
	if page.Meta.Total != 2 || page.Meta.LastPage != 2 || page.Meta.CurrentPage != 2 {
		t.Errorf("unexpected meta %+v", page.Meta)
	}
	if len(page.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(page.Items))
	}
	if f.tasks.lastList.Sort == nil || f.tasks.lastList.Sort.Column != "title" {
		t.Errorf("expected title sort to reach the repository, got %+v", f.tasks.lastList.Sort)
	}
	if f.tasks.lastList.OwnerID != alice.ID {
		t.Errorf("expected owner filter %s, got %q", alice.ID, f.tasks.lastList.OwnerID)
	}

	filtered, err := f.service.FindAllMatches(ctx, alice, primary.TaskQuery{StartDate: "2023-11-01", Deadline: "2023-11-02"})
	if err != nil {
		t.Fatalf("FindAllMatches failed: %v", err)
	}
	if len(filtered.Items) != 1 || filtered.Items[0].Title != "Review" {
		t.Errorf("expected only Review in the date range, got %+v", filtered.Items)
	}

	// unknown sort columns are ignored
	if _, err := f.service.FindAllMatches(ctx, alice, primary.TaskQuery{MatchQuery: primary.MatchQuery{OrderBy: "password-asc"}}); err != nil {
		t.Fatalf("FindAllMatches failed: %v", err)
	}
	if f.tasks.lastList.Sort != nil {
		t.Errorf("expected sort to be dropped, got %+v", f.tasks.lastList.Sort)
	}

	if _, err := f.service.FindAllMatches(ctx, alice, primary.TaskQuery{StartDate: "soon"}); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected validation error for bad date filter, got %v", err)
	}
}

func TestTaskService_ConcurrentCreatesSameOwner(t *testing.T) {
	f := newTestTaskService()

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.Create(context.Background(), alice, createReq("race", "2023-10-31", "2023-11-03"))
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 {
		t.Errorf("expected exactly one overlapping create to win, got %d", succeeded)
	}
	if n := f.service.locks.size(); n != 0 {
		t.Errorf("expected owner locks to be released, %d left", n)
	}
}
