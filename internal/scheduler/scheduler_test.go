package scheduler

import (
	"fmt"
	"testing"
	"time"

	"github.com/raaj7000prajapati-crypto/jee-protocol/pkg/models"
)

type fakeStore struct {
	progress models.UserProgress
	enabled  []bool
}

func (s *fakeStore) Snapshot() models.UserProgress {
	return s.progress.Clone()
}

func (s *fakeStore) SetNotificationsEnabled(enabled bool) error {
	s.progress.NotificationsEnabled = enabled
	s.enabled = append(s.enabled, enabled)
	return nil
}

type fakeNotifier struct {
	probeErr error
	sendErr  error
	sent     []int
}

func (n *fakeNotifier) Probe() error {
	return n.probeErr
}

func (n *fakeNotifier) SendReminder(incompleteTasks int) error {
	if n.sendErr != nil {
		return n.sendErr
	}
	n.sent = append(n.sent, incompleteTasks)
	return nil
}

func at(hour, minute int) func() time.Time {
	return func() time.Time {
		return time.Date(2026, 8, 28, hour, minute, 30, 0, time.Local)
	}
}

func withTasks(incomplete, complete int) models.UserProgress {
	p := models.DefaultProgress()
	for i := 0; i < incomplete; i++ {
		p.Tasks = append(p.Tasks, models.Task{ID: fmt.Sprintf("i%d", i), Text: "pending"})
	}
	for i := 0; i < complete; i++ {
		p.Tasks = append(p.Tasks, models.Task{ID: fmt.Sprintf("c%d", i), Text: "done", Completed: true})
	}
	return p
}

func TestArmRefusedWithoutNotifier(t *testing.T) {
	store := &fakeStore{}
	s := New(store, nil)

	if err := s.Arm(); err != ErrUnsupported {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	if s.Armed() {
		t.Error("expected state to remain Disabled")
	}
	if len(store.enabled) != 0 {
		t.Error("expected opt-in flag untouched")
	}
}

func TestArmRefusedWhenPermissionDenied(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{probeErr: fmt.Errorf("denied")}
	s := New(store, notifier)

	if err := s.Arm(); err == nil {
		t.Fatal("expected arm to fail on denied probe")
	}
	if s.Armed() {
		t.Error("expected state to remain Disabled")
	}
	if store.progress.NotificationsEnabled {
		t.Error("expected opt-in flag to stay false")
	}
}

func TestArmAndDisarm(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	s := New(store, notifier)

	if err := s.Arm(); err != nil {
		t.Fatalf("Arm failed: %v", err)
	}
	if !s.Armed() {
		t.Error("expected Armed after opt-in with granted permission")
	}
	if !store.progress.NotificationsEnabled {
		t.Error("expected opt-in flag persisted")
	}

	if err := s.Disarm(); err != nil {
		t.Fatalf("Disarm failed: %v", err)
	}
	if s.Armed() {
		t.Error("expected Disabled after disarm")
	}
	if store.progress.NotificationsEnabled {
		t.Error("expected opt-in flag cleared")
	}
}

func TestCheckFiresAtTargetWithIncompleteTasks(t *testing.T) {
	store := &fakeStore{progress: withTasks(3, 1)}
	notifier := &fakeNotifier{}
	s := New(store, notifier)
	s.hour, s.minute = 20, 0
	s.now = at(20, 0)

	s.check()

	if len(notifier.sent) != 1 || notifier.sent[0] != 3 {
		t.Fatalf("expected one reminder with count 3, got %v", notifier.sent)
	}
}

func TestCheckFiresAtMostOncePerDay(t *testing.T) {
	store := &fakeStore{progress: withTasks(2, 0)}
	notifier := &fakeNotifier{}
	s := New(store, notifier)
	s.hour, s.minute = 20, 0
	s.now = at(20, 0)

	s.check()
	s.check()

	if len(notifier.sent) != 1 {
		t.Errorf("expected the daily guard to suppress the second fire, got %d", len(notifier.sent))
	}
}

func TestCheckSkipsOutsideTargetMinute(t *testing.T) {
	store := &fakeStore{progress: withTasks(2, 0)}
	notifier := &fakeNotifier{}
	s := New(store, notifier)
	s.hour, s.minute = 20, 0
	s.now = at(19, 59)

	s.check()

	if len(notifier.sent) != 0 {
		t.Errorf("expected no reminder outside the target minute, got %v", notifier.sent)
	}
}

func TestCheckSkipsWhenNothingIsPending(t *testing.T) {
	store := &fakeStore{progress: withTasks(0, 4)}
	notifier := &fakeNotifier{}
	s := New(store, notifier)
	s.hour, s.minute = 20, 0
	s.now = at(20, 0)

	s.check()

	if len(notifier.sent) != 0 {
		t.Errorf("expected no reminder with all tasks done, got %v", notifier.sent)
	}
}

func TestSendFailureDoesNotBurnTheDay(t *testing.T) {
	store := &fakeStore{progress: withTasks(1, 0)}
	notifier := &fakeNotifier{sendErr: fmt.Errorf("network")}
	s := New(store, notifier)
	s.hour, s.minute = 20, 0
	s.now = at(20, 0)

	s.check()
	notifier.sendErr = nil
	s.check()

	if len(notifier.sent) != 1 {
		t.Errorf("expected the retry within the minute to deliver, got %d", len(notifier.sent))
	}
}

func TestResumeReArmsFromPersistedFlag(t *testing.T) {
	progress := models.DefaultProgress()
	progress.NotificationsEnabled = true
	store := &fakeStore{progress: progress}
	notifier := &fakeNotifier{}
	s := New(store, notifier)
	defer s.Stop()

	s.Resume()

	if !s.Armed() {
		t.Error("expected resume to re-arm when the flag is set")
	}
}

func TestResumeClearsFlagWhenPermissionLost(t *testing.T) {
	progress := models.DefaultProgress()
	progress.NotificationsEnabled = true
	store := &fakeStore{progress: progress}
	notifier := &fakeNotifier{probeErr: fmt.Errorf("revoked")}
	s := New(store, notifier)

	s.Resume()

	if s.Armed() {
		t.Error("expected resume to stay Disabled on denied probe")
	}
	if store.progress.NotificationsEnabled {
		t.Error("expected the stale opt-in flag to be cleared")
	}
}
