package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmynk/roomdraw/internal/housing"
	"github.com/mmynk/roomdraw/internal/models"
	"github.com/mmynk/roomdraw/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "roomdraw-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustTx(t *testing.T, store *SQLiteStore, fn func(tx storage.Tx) error) {
	t.Helper()
	if err := store.InTx(context.Background(), fn); err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
}

// seed creates a draw with the given students and suites of the given sizes.
func seed(t *testing.T, store *SQLiteStore, studentIDs []string, suiteSizes []int) *models.Draw {
	t.Helper()
	ctx := context.Background()
	draw := &models.Draw{Name: "Junior Draw"}
	mustTx(t, store, func(tx storage.Tx) error {
		if err := tx.CreateDraw(ctx, draw); err != nil {
			return err
		}
		for _, id := range studentIDs {
			s := &models.Student{ID: id, Name: "Student " + id, Email: id + "@example.edu",
				Intent: models.IntentOnCampus, DrawID: draw.ID}
			if err := tx.CreateStudent(ctx, s); err != nil {
				return err
			}
		}
		for i, size := range suiteSizes {
			suite := &models.Suite{Number: string(rune('A' + i)), Building: "Hall", Size: size, DrawID: draw.ID}
			if err := tx.CreateSuite(ctx, suite); err != nil {
				return err
			}
		}
		return nil
	})
	return draw
}

func createGroup(t *testing.T, store *SQLiteStore, g *models.Group) {
	t.Helper()
	mustTx(t, store, func(tx storage.Tx) error {
		return tx.CreateGroup(context.Background(), g)
	})
}

func TestGroupRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	draw := seed(t, store, []string{"L", "A", "B", "C"}, []int{2, 4})

	leader, err := store.GetStudent(ctx, "L")
	if err != nil {
		t.Fatalf("GetStudent failed: %v", err)
	}
	g := housing.NewGroup(leader, 4, draw.ID, 0)
	createGroup(t, store, g)

	if g.ID == "" {
		t.Fatal("Expected group ID to be generated")
	}
	if g.Version != 1 {
		t.Errorf("Version: got %d, want 1", g.Version)
	}

	for _, id := range []string{"C", "A", "B"} {
		s, _ := store.GetStudent(ctx, id)
		if err := housing.Request(g, s); err != nil {
			t.Fatalf("Request failed: %v", err)
		}
	}
	mustTx(t, store, func(tx storage.Tx) error { return tx.SaveGroup(ctx, g) })

	got, err := store.GetGroup(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if got.LeaderName != "Student L" {
		t.Errorf("LeaderName: got %q", got.LeaderName)
	}
	if got.DrawID != draw.ID {
		t.Errorf("DrawID: got %q, want %q", got.DrawID, draw.ID)
	}
	if got.Version != 2 || got.StoredSize != 4 {
		t.Errorf("Version/StoredSize: got %d/%d, want 2/4", got.Version, got.StoredSize)
	}

	requests := got.Requests()
	want := []string{"C", "A", "B"}
	if len(requests) != len(want) {
		t.Fatalf("Requests: got %v, want %v", requests, want)
	}
	for i := range want {
		if requests[i] != want[i] {
			t.Errorf("Requests not in insertion order: got %v, want %v", requests, want)
		}
	}
	if members := got.Members(); len(members) != 1 || members[0] != "L" {
		t.Errorf("Members: got %v, want [L]", members)
	}
}

func TestSaveGroupReconcilesMemberships(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	draw := seed(t, store, []string{"L", "A", "B"}, []int{3})

	leader, _ := store.GetStudent(ctx, "L")
	g := housing.NewGroup(leader, 3, draw.ID, 0)
	for _, id := range []string{"A", "B"} {
		s, _ := store.GetStudent(ctx, id)
		if err := housing.Invite(g, s); err != nil {
			t.Fatalf("Invite failed: %v", err)
		}
	}
	createGroup(t, store, g)

	if err := housing.AcceptInvitation(g, "A"); err != nil {
		t.Fatalf("AcceptInvitation failed: %v", err)
	}
	if err := housing.RejectPending(g, "B"); err != nil {
		t.Fatalf("RejectPending failed: %v", err)
	}
	mustTx(t, store, func(tx storage.Tx) error { return tx.SaveGroup(ctx, g) })

	got, err := store.GetGroup(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if len(got.Memberships) != 2 {
		t.Fatalf("Memberships: got %d, want 2", len(got.Memberships))
	}
	if m, _ := got.Membership("A"); m.Status != models.MembershipAccepted {
		t.Errorf("A status: got %s", m.Status)
	}
	if _, ok := got.Membership("B"); ok {
		t.Error("Expected B's invitation to be deleted")
	}

	full, err := store.FullMembershipOf(ctx, "A")
	if err != nil || full == nil || full.GroupID != g.ID {
		t.Errorf("FullMembershipOf(A): got %+v, %v", full, err)
	}
	none, err := store.FullMembershipOf(ctx, "B")
	if err != nil || none != nil {
		t.Errorf("FullMembershipOf(B): got %+v, %v", none, err)
	}
}

func TestSaveGroupDetectsConcurrentWriter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	draw := seed(t, store, []string{"L"}, []int{2})

	leader, _ := store.GetStudent(ctx, "L")
	g := housing.NewGroup(leader, 2, draw.ID, 0)
	createGroup(t, store, g)

	first, _ := store.GetGroup(ctx, g.ID)
	second, _ := store.GetGroup(ctx, g.ID)

	first.Transfers = 1
	housing.RefreshStatus(first)
	mustTx(t, store, func(tx storage.Tx) error { return tx.SaveGroup(ctx, first) })

	err := store.InTx(ctx, func(tx storage.Tx) error { return tx.SaveGroup(ctx, second) })
	if !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("Expected ErrConflict, got %v", err)
	}

	missing := &models.Group{ID: "nope", Version: 1}
	err = store.InTx(ctx, func(tx storage.Tx) error { return tx.SaveGroup(ctx, missing) })
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestStudentHoldsOneFullMembership(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	draw := seed(t, store, []string{"L1", "L2", "A"}, []int{2})

	a, _ := store.GetStudent(ctx, "A")
	for _, leaderID := range []string{"L1", "L2"} {
		leader, _ := store.GetStudent(ctx, leaderID)
		g := housing.NewGroup(leader, 2, draw.ID, 0)
		if err := housing.AddMember(g, a); err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}
		err := store.InTx(ctx, func(tx storage.Tx) error { return tx.CreateGroup(ctx, g) })
		if leaderID == "L1" && err != nil {
			t.Fatalf("first group: %v", err)
		}
		if leaderID == "L2" && err == nil {
			t.Fatal("Expected second full membership to be rejected")
		}
	}
}

func TestLockRollsBackOnFailure(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	draw := seed(t, store, []string{"L", "A", "B"}, []int{3})

	leader, _ := store.GetStudent(ctx, "L")
	g := housing.NewGroup(leader, 3, draw.ID, 0)
	for _, id := range []string{"A", "B"} {
		s, _ := store.GetStudent(ctx, id)
		if err := housing.AddMember(g, s); err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}
	}
	createGroup(t, store, g)

	// Fail while locking the last membership, after the others were written.
	_, err := store.db.Exec(`
		CREATE TRIGGER fail_lock BEFORE UPDATE ON memberships
		WHEN NEW.student_id = 'B' AND NEW.status = 'locked'
		BEGIN SELECT RAISE(ABORT, 'forced failure'); END;`)
	if err != nil {
		t.Fatalf("Failed to create trigger: %v", err)
	}

	if err := housing.LockAll(g); err != nil {
		t.Fatalf("LockAll failed: %v", err)
	}
	err = store.InTx(ctx, func(tx storage.Tx) error { return tx.SaveGroup(ctx, g) })
	if err == nil {
		t.Fatal("Expected save to fail")
	}

	got, err := store.GetGroup(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if got.Status != models.GroupFull {
		t.Errorf("Status: got %s, want full", got.Status)
	}
	if locked := got.LockedMembers(); len(locked) != 0 {
		t.Errorf("Expected no locked memberships after rollback, got %v", locked)
	}

	if _, err := store.db.Exec("DROP TRIGGER fail_lock"); err != nil {
		t.Fatalf("Failed to drop trigger: %v", err)
	}
	if err := housing.LockAll(got); err != nil {
		t.Fatalf("LockAll failed: %v", err)
	}
	mustTx(t, store, func(tx storage.Tx) error { return tx.SaveGroup(ctx, got) })

	locked, _ := store.GetGroup(ctx, g.ID)
	if locked.Status != models.GroupLocked || len(locked.LockedMembers()) != 3 {
		t.Errorf("Expected all locked, got status %s and %v", locked.Status, locked.LockedMembers())
	}
}

func TestDeletePendingMemberships(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	draw := seed(t, store, []string{"L1", "L2", "S"}, []int{2})

	s, _ := store.GetStudent(ctx, "S")
	var groups []*models.Group
	for _, leaderID := range []string{"L1", "L2"} {
		leader, _ := store.GetStudent(ctx, leaderID)
		g := housing.NewGroup(leader, 2, draw.ID, 0)
		if err := housing.Request(g, s); err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		createGroup(t, store, g)
		groups = append(groups, g)
	}

	var deleted int64
	mustTx(t, store, func(tx storage.Tx) error {
		var err error
		deleted, err = tx.DeletePendingMemberships(ctx, "S", groups[0].ID)
		return err
	})
	if deleted != 1 {
		t.Errorf("Deleted: got %d, want 1", deleted)
	}

	kept, _ := store.GetGroup(ctx, groups[0].ID)
	if len(kept.Requests()) != 1 {
		t.Errorf("Expected request in first group to survive, got %v", kept.Requests())
	}
	dropped, _ := store.GetGroup(ctx, groups[1].ID)
	if len(dropped.Requests()) != 0 {
		t.Errorf("Expected request in second group to be deleted, got %v", dropped.Requests())
	}
}

func TestPullAndRestoreDraw(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	draw := seed(t, store, []string{"S"}, nil)

	mustTx(t, store, func(tx storage.Tx) error { return tx.PullFromDraw(ctx, "S") })
	s, _ := store.GetStudent(ctx, "S")
	if s.DrawID != "" || s.OldDrawID != draw.ID {
		t.Fatalf("After pull: draw %q, old draw %q", s.DrawID, s.OldDrawID)
	}

	// Pulling twice keeps the original draw.
	mustTx(t, store, func(tx storage.Tx) error { return tx.PullFromDraw(ctx, "S") })
	mustTx(t, store, func(tx storage.Tx) error { return tx.RestoreDraw(ctx, "S") })
	s, _ = store.GetStudent(ctx, "S")
	if s.DrawID != draw.ID || s.OldDrawID != "" {
		t.Fatalf("After restore: draw %q, old draw %q", s.DrawID, s.OldDrawID)
	}

	err := store.InTx(ctx, func(tx storage.Tx) error { return tx.RestoreLeader(ctx, "nobody") })
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSuiteCatalog(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	draw := seed(t, store, []string{"L"}, []int{2, 1, 2})
	mustTx(t, store, func(tx storage.Tx) error {
		return tx.CreateSuite(ctx, &models.Suite{Number: "X1", Building: "Annex", Size: 6})
	})

	leader, _ := store.GetStudent(ctx, "L")
	g := housing.NewGroup(leader, 1, draw.ID, 0)
	createGroup(t, store, g)

	mustTx(t, store, func(tx storage.Tx) error {
		all, err := tx.SuiteSizes(ctx)
		if err != nil {
			return err
		}
		if len(all) != 3 || all[0] != 1 || all[2] != 6 {
			t.Errorf("SuiteSizes: got %v, want [1 2 6]", all)
		}

		open, err := tx.OpenSuiteSizes(ctx, draw.ID)
		if err != nil {
			return err
		}
		if len(open) != 2 || open[0] != 1 || open[1] != 2 {
			t.Errorf("OpenSuiteSizes: got %v, want [1 2]", open)
		}

		suiteID, err := tx.AssignSuite(ctx, g, "")
		if err != nil {
			return err
		}
		if suiteID == "" {
			t.Error("Expected a suite ID")
		}

		open, err = tx.OpenSuiteSizes(ctx, draw.ID)
		if err != nil {
			return err
		}
		if len(open) != 1 || open[0] != 2 {
			t.Errorf("OpenSuiteSizes after assignment: got %v, want [2]", open)
		}

		if _, err := tx.AssignSuite(ctx, g, ""); !errors.Is(err, housing.ErrNoSuiteAvailable) {
			t.Errorf("Expected ErrNoSuiteAvailable, got %v", err)
		}
		return nil
	})

	got, _ := store.GetGroup(ctx, g.ID)
	if got.SuiteID == "" {
		t.Error("Expected group to carry its suite")
	}
	suites, err := store.ListSuites(ctx, draw.ID)
	if err != nil {
		t.Fatalf("ListSuites failed: %v", err)
	}
	if len(suites) != 3 {
		t.Errorf("ListSuites: got %d, want 3", len(suites))
	}
}

func TestDrawTransitions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	draw := seed(t, store, nil, nil)

	mustTx(t, store, func(tx storage.Tx) error {
		return tx.TransitionDraw(ctx, draw.ID, models.DrawDraft, models.DrawPreLottery)
	})
	err := store.InTx(ctx, func(tx storage.Tx) error {
		return tx.TransitionDraw(ctx, draw.ID, models.DrawDraft, models.DrawPreLottery)
	})
	if !errors.Is(err, storage.ErrConflict) {
		t.Errorf("Expected ErrConflict, got %v", err)
	}

	mustTx(t, store, func(tx storage.Tx) error { return tx.MarkLotteryAssigned(ctx, draw.ID) })
	err = store.InTx(ctx, func(tx storage.Tx) error { return tx.MarkLotteryAssigned(ctx, draw.ID) })
	if !errors.Is(err, storage.ErrConflict) {
		t.Errorf("Expected ErrConflict on second assignment, got %v", err)
	}

	got, err := store.GetDraw(ctx, draw.ID)
	if err != nil {
		t.Fatalf("GetDraw failed: %v", err)
	}
	if got.Status != models.DrawPreLottery || !got.LotteryAssigned {
		t.Errorf("Draw: got %+v", got)
	}

	if _, err := store.GetDraw(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestAssignSpecificSuite(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	draw := seed(t, store, []string{"L", "M"}, nil)
	other := seed(t, store, []string{"O"}, nil)

	mustTx(t, store, func(tx storage.Tx) error {
		for _, s := range []*models.Suite{
			{ID: "pair", Number: "101", Building: "Hall", Size: 2, DrawID: draw.ID},
			{ID: "taken", Number: "102", Building: "Hall", Size: 2, DrawID: draw.ID},
			{ID: "triple", Number: "103", Building: "Hall", Size: 3, DrawID: draw.ID},
			{ID: "elsewhere", Number: "201", Building: "Annex", Size: 2, DrawID: other.ID},
		} {
			if err := tx.CreateSuite(ctx, s); err != nil {
				return err
			}
		}
		return nil
	})

	leader, _ := store.GetStudent(ctx, "L")
	g := housing.NewGroup(leader, 2, draw.ID, 0)
	createGroup(t, store, g)

	holder, _ := store.GetStudent(ctx, "M")
	h := housing.NewGroup(holder, 2, draw.ID, 0)
	createGroup(t, store, h)
	mustTx(t, store, func(tx storage.Tx) error {
		_, err := tx.AssignSuite(ctx, h, "taken")
		return err
	})

	tests := []struct {
		name    string
		suiteID string
	}{
		{"wrong size", "triple"},
		{"other draw", "elsewhere"},
		{"already taken", "taken"},
		{"unknown suite", "missing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.InTx(ctx, func(tx storage.Tx) error {
				_, err := tx.AssignSuite(ctx, g, tt.suiteID)
				return err
			})
			if !errors.Is(err, housing.ErrNoSuiteAvailable) {
				t.Fatalf("Expected ErrNoSuiteAvailable, got %v", err)
			}
			got, err := store.GetGroup(ctx, g.ID)
			if err != nil {
				t.Fatalf("GetGroup failed: %v", err)
			}
			if got.SuiteID != "" {
				t.Errorf("Expected no suite, got %q", got.SuiteID)
			}
		})
	}

	mustTx(t, store, func(tx storage.Tx) error {
		suiteID, err := tx.AssignSuite(ctx, g, "pair")
		if err != nil {
			return err
		}
		if suiteID != "pair" {
			t.Errorf("AssignSuite: got %q, want pair", suiteID)
		}
		return nil
	})

	// Drawless groups may take a matching suite from any draw.
	mustTx(t, store, func(tx storage.Tx) error { return tx.PullFromDraw(ctx, "O") })
	drawlessLeader, _ := store.GetStudent(ctx, "O")
	d := housing.NewGroup(drawlessLeader, 2, "", 0)
	createGroup(t, store, d)
	mustTx(t, store, func(tx storage.Tx) error {
		_, err := tx.AssignSuite(ctx, d, "elsewhere")
		return err
	})
	if got, _ := store.GetGroup(ctx, d.ID); got.SuiteID != "elsewhere" {
		t.Errorf("Drawless SuiteID: got %q, want elsewhere", got.SuiteID)
	}
}

func TestOfferSuiteAndUpdateStudent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	draw := seed(t, store, []string{"L"}, nil)
	mustTx(t, store, func(tx storage.Tx) error {
		for _, s := range []*models.Suite{
			{ID: "free", Number: "301", Building: "Hall", Size: 2},
			{ID: "held", Number: "302", Building: "Hall", Size: 1, DrawID: draw.ID},
		} {
			if err := tx.CreateSuite(ctx, s); err != nil {
				return err
			}
		}
		return nil
	})

	leader, _ := store.GetStudent(ctx, "L")
	g := housing.NewGroup(leader, 1, draw.ID, 0)
	createGroup(t, store, g)
	mustTx(t, store, func(tx storage.Tx) error {
		_, err := tx.AssignSuite(ctx, g, "held")
		return err
	})

	mustTx(t, store, func(tx storage.Tx) error {
		return tx.OfferSuite(ctx, "free", draw.ID)
	})
	s, err := store.GetSuite(ctx, "free")
	if err != nil || s.DrawID != draw.ID || s.GroupID != "" {
		t.Fatalf("GetSuite(free) = %+v, %v", s, err)
	}

	for _, id := range []string{"held", "missing"} {
		err := store.InTx(ctx, func(tx storage.Tx) error { return tx.OfferSuite(ctx, id, "") })
		if !errors.Is(err, storage.ErrConflict) {
			t.Errorf("OfferSuite(%s): expected ErrConflict, got %v", id, err)
		}
	}
	if s, _ := store.GetSuite(ctx, "held"); s.DrawID != draw.ID || s.GroupID != g.ID {
		t.Errorf("assigned suite moved: %+v", s)
	}
	if _, err := store.GetSuite(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetSuite(missing): expected ErrNotFound, got %v", err)
	}

	mustTx(t, store, func(tx storage.Tx) error {
		return tx.OfferSuite(ctx, "free", "")
	})
	if s, _ := store.GetSuite(ctx, "free"); s.DrawID != "" {
		t.Errorf("expected free outside every draw, got %s", s.DrawID)
	}

	leader.Intent = models.IntentOffCampus
	leader.DrawID = ""
	mustTx(t, store, func(tx storage.Tx) error {
		return tx.UpdateStudent(ctx, leader)
	})
	got, _ := store.GetStudent(ctx, "L")
	if got.Intent != models.IntentOffCampus || got.DrawID != "" {
		t.Errorf("UpdateStudent did not persist: %+v", got)
	}

	err = store.InTx(ctx, func(tx storage.Tx) error {
		return tx.UpdateStudent(ctx, &models.Student{ID: "missing", Intent: models.IntentOnCampus})
	})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("UpdateStudent(missing): expected ErrNotFound, got %v", err)
	}
}
