package progress

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/raaj7000prajapati-crypto/jee-protocol/pkg/models"
)

// fakeRepository keeps payloads in memory and counts writes
type fakeRepository struct {
	payloads map[string]string
	saves    int
	failSave bool
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{payloads: make(map[string]string)}
}

func (r *fakeRepository) LoadPayload(key string) (string, bool, error) {
	payload, ok := r.payloads[key]
	return payload, ok, nil
}

func (r *fakeRepository) SavePayload(key, payload string) error {
	if r.failSave {
		return fmt.Errorf("disk full")
	}
	r.saves++
	r.payloads[key] = payload
	return nil
}

func TestLoadDefaultsOnFirstRun(t *testing.T) {
	store := NewStore(newFakeRepository())

	snapshot := store.Snapshot()
	if snapshot.DailyQuote != models.DefaultDailyQuote {
		t.Errorf("expected default quote, got %q", snapshot.DailyQuote)
	}
	if snapshot.SeenQuestions == nil || snapshot.Tasks == nil {
		t.Error("expected non-nil slices in default state")
	}
	if snapshot.TotalQuestionsSolved != 0 {
		t.Errorf("expected zero solved, got %d", snapshot.TotalQuestionsSolved)
	}
}

func TestLoadMergesPartialPayloadOntoDefaults(t *testing.T) {
	repo := newFakeRepository()
	// Payload from an older version that knew nothing about tasks or quotes
	repo.payloads[StorageKey] = `{"physicsScore": 7, "totalQuestionsSolved": 9}`

	store := NewStore(repo)
	snapshot := store.Snapshot()

	if snapshot.PhysicsScore != 7 {
		t.Errorf("expected saved physics score 7, got %d", snapshot.PhysicsScore)
	}
	if snapshot.TotalQuestionsSolved != 9 {
		t.Errorf("expected saved total 9, got %d", snapshot.TotalQuestionsSolved)
	}
	if snapshot.DailyQuote != models.DefaultDailyQuote {
		t.Errorf("expected default quote for missing field, got %q", snapshot.DailyQuote)
	}
	if snapshot.SeenQuestions == nil || snapshot.Tasks == nil {
		t.Error("expected missing slice fields to default to empty, not nil")
	}
}

func TestLoadCorruptPayloadFallsBackToDefaults(t *testing.T) {
	repo := newFakeRepository()
	repo.payloads[StorageKey] = `{not json`

	store := NewStore(repo)

	if !reflect.DeepEqual(store.Snapshot(), models.DefaultProgress()) {
		t.Error("expected defaults after corrupt payload")
	}
}

func TestRecordCorrectAnswerCountsEveryEvent(t *testing.T) {
	store := NewStore(newFakeRepository())

	events := []models.Subject{
		models.SubjectPhysics, models.SubjectPhysics,
		models.SubjectChemistry, models.SubjectMathematics,
	}
	previousTotal := 0
	for _, subject := range events {
		if err := store.RecordCorrectAnswer(subject); err != nil {
			t.Fatalf("RecordCorrectAnswer failed: %v", err)
		}
		total := store.Snapshot().TotalQuestionsSolved
		if total <= previousTotal {
			t.Errorf("expected total to grow, got %d after %d", total, previousTotal)
		}
		previousTotal = total
	}

	snapshot := store.Snapshot()
	if snapshot.TotalQuestionsSolved != len(events) {
		t.Errorf("expected total %d, got %d", len(events), snapshot.TotalQuestionsSolved)
	}
	if snapshot.PhysicsScore != 2 || snapshot.ChemistryScore != 1 || snapshot.MathematicsScore != 1 {
		t.Errorf("unexpected subject scores: %d/%d/%d",
			snapshot.PhysicsScore, snapshot.ChemistryScore, snapshot.MathematicsScore)
	}
}

func TestSeenQuestionsEvictOldestBeyondCap(t *testing.T) {
	store := NewStore(newFakeRepository())

	for i := 0; i < models.SeenQuestionsCap+5; i++ {
		if err := store.RememberQuestion(fmt.Sprintf("question %d", i)); err != nil {
			t.Fatalf("RememberQuestion failed: %v", err)
		}
	}

	seen := store.SeenQuestions()
	if len(seen) != models.SeenQuestionsCap {
		t.Fatalf("expected %d entries, got %d", models.SeenQuestionsCap, len(seen))
	}
	if seen[0] != "question 5" {
		t.Errorf("expected oldest surviving entry to be question 5, got %q", seen[0])
	}
	if seen[len(seen)-1] != fmt.Sprintf("question %d", models.SeenQuestionsCap+4) {
		t.Errorf("expected newest entry last, got %q", seen[len(seen)-1])
	}
}

func TestEveryMutationWritesTheWholeSnapshot(t *testing.T) {
	repo := newFakeRepository()
	store := NewStore(repo)

	if err := store.RecordCorrectAnswer(models.SubjectPhysics); err != nil {
		t.Fatalf("RecordCorrectAnswer failed: %v", err)
	}
	if _, _, err := store.AddTask("revise optics"); err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	if err := store.CommitQuote("Push on.", "2026-08-28"); err != nil {
		t.Fatalf("CommitQuote failed: %v", err)
	}

	if repo.saves != 3 {
		t.Errorf("expected 3 writes for 3 mutations, got %d", repo.saves)
	}
}

func TestMutationSurvivesWriteFailure(t *testing.T) {
	repo := newFakeRepository()
	repo.failSave = true
	store := NewStore(repo)

	if err := store.RecordCorrectAnswer(models.SubjectPhysics); err == nil {
		t.Error("expected write error to be reported")
	}
	if store.Snapshot().PhysicsScore != 1 {
		t.Error("expected in-memory state to keep the mutation")
	}
}

func TestStoreTaskOperations(t *testing.T) {
	store := NewStore(newFakeRepository())

	if _, ok, _ := store.AddTask("   "); ok {
		t.Error("expected blank add to be a no-op")
	}
	if len(store.Snapshot().Tasks) != 0 {
		t.Error("expected no tasks after blank add")
	}

	task, ok, err := store.AddTask("Solve calc")
	if err != nil || !ok {
		t.Fatalf("AddTask failed: ok=%v err=%v", ok, err)
	}

	if ok, _ := store.ToggleTask("no-such-id"); ok {
		t.Error("expected unknown toggle to be a no-op")
	}
	if ok, _ := store.DeleteTask("no-such-id"); ok {
		t.Error("expected unknown delete to be a no-op")
	}

	if ok, err := store.ToggleTask(task.ID); err != nil || !ok {
		t.Fatalf("ToggleTask failed: ok=%v err=%v", ok, err)
	}

	tasks := store.Snapshot().Tasks
	if len(tasks) != 1 || !tasks[0].Completed || tasks[0].Text != "Solve calc" {
		t.Errorf("unexpected tasks after toggle: %+v", tasks)
	}

	if ok, err := store.DeleteTask(task.ID); err != nil || !ok {
		t.Fatalf("DeleteTask failed: ok=%v err=%v", ok, err)
	}
	if len(store.Snapshot().Tasks) != 0 {
		t.Error("expected empty task list after delete")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	store := NewStore(newFakeRepository())
	if err := store.RecordCorrectAnswer(models.SubjectMathematics); err != nil {
		t.Fatalf("RecordCorrectAnswer failed: %v", err)
	}
	if _, _, err := store.AddTask("finish mocks"); err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	if err := store.RememberQuestion("What is the value of $e$?"); err != nil {
		t.Fatalf("RememberQuestion failed: %v", err)
	}

	payload, err := store.ExportSnapshot()
	if err != nil {
		t.Fatalf("ExportSnapshot failed: %v", err)
	}

	restored := NewStore(newFakeRepository())
	if err := restored.ImportWhole(payload); err != nil {
		t.Fatalf("ImportWhole failed: %v", err)
	}

	if !reflect.DeepEqual(store.Snapshot(), restored.Snapshot()) {
		t.Error("expected identical state after export/import round trip")
	}
}

func TestImportRejectsMalformedPayloads(t *testing.T) {
	store := NewStore(newFakeRepository())

	if err := store.ImportWhole([]byte(`{broken`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
	if err := store.ImportWhole([]byte(`{"physicsScore": -1}`)); err == nil {
		t.Error("expected error for negative score")
	}
	if err := store.ImportWhole([]byte(`{"tasks": [{"text": "no id"}]}`)); err == nil {
		t.Error("expected error for task without id")
	}

	if !reflect.DeepEqual(store.Snapshot(), models.DefaultProgress()) {
		t.Error("expected state untouched after rejected imports")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	store := NewStore(newFakeRepository())
	if _, _, err := store.AddTask("immutable?"); err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}

	snapshot := store.Snapshot()
	snapshot.Tasks[0].Completed = true
	snapshot.PhysicsScore = 99

	fresh := store.Snapshot()
	if fresh.Tasks[0].Completed || fresh.PhysicsScore != 0 {
		t.Error("mutating a snapshot must not affect the store")
	}
}
