package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/Rarvelom/OffHeadHunter-Reboot-Final-Project/internal/models"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: map[uuid.UUID]*models.User{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(id uuid.UUID) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user not found")
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("user not found")
}

func (r *fakeUserRepo) Update(user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return fmt.Errorf("user not found")
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

type fakeChatRepo struct {
	messages []models.ChatMessage
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{}
}

func (r *fakeChatRepo) Create(message *models.ChatMessage) error {
	r.messages = append(r.messages, *message)
	return nil
}

func (r *fakeChatRepo) FindByUser(userID uuid.UUID, limit int) ([]models.ChatMessage, error) {
	var out []models.ChatMessage
	for _, m := range r.messages {
		if m.UserID == userID {
			out = append(out, m)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func TestIntake_GreetAsksFirstQuestion(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "ana@example.com", Name: "Ana"}
	intake := NewIntakeService(newFakeUserRepo(user), newFakeChatRepo())

	reply, err := intake.Greet(user.ID)
	if err != nil {
		t.Fatalf("greet error: %v", err)
	}
	if reply.Complete {
		t.Fatal("profile should not be complete for a fresh user")
	}
	if reply.Field != "desired_position" {
		t.Fatalf("expected first question to ask for desired_position, got %q", reply.Field)
	}
	if !strings.Contains(reply.Message, "posición") {
		t.Fatalf("expected the position question, got %q", reply.Message)
	}
}

func TestIntake_FullQuestionnaire(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "ana@example.com", Name: "Ana"}
	repo := newFakeUserRepo(user)
	intake := NewIntakeService(repo, newFakeChatRepo())

	answers := []struct {
		answer    string
		nextField string
	}{
		{"Backend developer", "salary_expectation"},
		{"35.000 EUR", "location"},
		{"Madrid, España", "work_modality"},
	}

	for _, step := range answers {
		reply, err := intake.HandleAnswer(user.ID, step.answer)
		if err != nil {
			t.Fatalf("answer %q: %v", step.answer, err)
		}
		if reply.Complete {
			t.Fatalf("profile complete too early after %q", step.answer)
		}
		if reply.Field != step.nextField {
			t.Fatalf("after %q expected next field %q, got %q", step.answer, step.nextField, reply.Field)
		}
	}

	reply, err := intake.HandleAnswer(user.ID, "Híbrido")
	if err != nil {
		t.Fatalf("final answer: %v", err)
	}
	if !reply.Complete {
		t.Fatal("expected profile to be complete after the last answer")
	}
	if !strings.Contains(reply.Message, "Backend developer") {
		t.Fatalf("summary should include the stored position, got %q", reply.Message)
	}

	stored, err := repo.FindByID(user.ID)
	if err != nil {
		t.Fatalf("find stored user: %v", err)
	}
	if stored.WorkModality != "Híbrido" || stored.Location != "Madrid, España" {
		t.Fatalf("preferences not persisted: %+v", stored)
	}
	if !stored.ProfileComplete() {
		t.Fatal("stored user should have a complete profile")
	}
}

func TestIntake_BlankAnswerReasksSameQuestion(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "ana@example.com", Name: "Ana"}
	intake := NewIntakeService(newFakeUserRepo(user), newFakeChatRepo())

	reply, err := intake.HandleAnswer(user.ID, "   ")
	if err != nil {
		t.Fatalf("blank answer: %v", err)
	}
	if reply.Complete {
		t.Fatal("blank answer must not complete the profile")
	}
	if reply.Field != "desired_position" {
		t.Fatalf("blank answer should re-ask the same question, got field %q", reply.Field)
	}
	if !strings.Contains(reply.Message, "No he entendido") {
		t.Fatalf("expected a re-ask message, got %q", reply.Message)
	}
}

func TestIntake_CompleteProfileGetsSummary(t *testing.T) {
	user := &models.User{
		ID:                uuid.New(),
		Email:             "ana@example.com",
		Name:              "Ana",
		DesiredPosition:   "Data engineer",
		SalaryExpectation: "40.000 EUR",
		Location:          "Barcelona",
		WorkModality:      "A distancia",
	}
	intake := NewIntakeService(newFakeUserRepo(user), newFakeChatRepo())

	reply, err := intake.Greet(user.ID)
	if err != nil {
		t.Fatalf("greet error: %v", err)
	}
	if !reply.Complete {
		t.Fatal("expected a complete profile to greet with the summary")
	}
	if !strings.Contains(reply.Message, "Data engineer") || !strings.Contains(reply.Message, "Barcelona") {
		t.Fatalf("summary missing stored preferences: %q", reply.Message)
	}
}

func TestIntake_RecordsTranscript(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "ana@example.com", Name: "Ana"}
	chatRepo := newFakeChatRepo()
	intake := NewIntakeService(newFakeUserRepo(user), chatRepo)

	if _, err := intake.Greet(user.ID); err != nil {
		t.Fatalf("greet error: %v", err)
	}
	if _, err := intake.HandleAnswer(user.ID, "Backend developer"); err != nil {
		t.Fatalf("answer error: %v", err)
	}

	messages, err := chatRepo.FindByUser(user.ID, 0)
	if err != nil {
		t.Fatalf("find messages: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("expected 3 transcript turns (greeting, answer, next question), got %d", len(messages))
	}

	wantRoles := []string{models.ChatRoleAssistant, models.ChatRoleUser, models.ChatRoleAssistant}
	for i, want := range wantRoles {
		if messages[i].Role != want {
			t.Fatalf("turn %d: expected role %q, got %q", i, want, messages[i].Role)
		}
	}
	if messages[1].Content != "Backend developer" {
		t.Fatalf("user turn should carry the answer, got %q", messages[1].Content)
	}
	if !strings.Contains(messages[0].Content, "asistente laboral") {
		t.Fatalf("first turn should be the greeting, got %q", messages[0].Content)
	}
}

func TestIntake_TranscriptErrorDoesNotBreakChat(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "ana@example.com", Name: "Ana"}
	intake := NewIntakeService(newFakeUserRepo(user), failingChatRepo{})

	reply, err := intake.Greet(user.ID)
	if err != nil {
		t.Fatalf("greet should survive transcript failures: %v", err)
	}
	if reply.Field != "desired_position" {
		t.Fatalf("expected the first question, got field %q", reply.Field)
	}
}

type failingChatRepo struct{}

func (failingChatRepo) Create(*models.ChatMessage) error {
	return fmt.Errorf("chat store down")
}

func (failingChatRepo) FindByUser(uuid.UUID, int) ([]models.ChatMessage, error) {
	return nil, fmt.Errorf("chat store down")
}

func TestIntake_UnknownUser(t *testing.T) {
	intake := NewIntakeService(newFakeUserRepo(), newFakeChatRepo())

	if _, err := intake.Greet(uuid.New()); err == nil {
		t.Fatal("expected error for unknown user")
	}
	if _, err := intake.HandleAnswer(uuid.New(), "hola"); err == nil {
		t.Fatal("expected error for unknown user")
	}
}
