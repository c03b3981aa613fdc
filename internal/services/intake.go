package services

import (
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/Rarvelom/OffHeadHunter-Reboot-Final-Project/internal/models"
	"github.com/Rarvelom/OffHeadHunter-Reboot-Final-Project/internal/repositories"
)

// The intake questionnaire, asked in order until the profile is complete.
type intakeQuestion struct {
	Field  string
	Prompt string
}

var intakeQuestions = []intakeQuestion{
	{
		Field:  "desired_position",
		Prompt: "¿A qué posición te gustaría aplicar?",
	},
	{
		Field:  "salary_expectation",
		Prompt: "¿Cuáles son tus expectativas salariales? (Indica el sueldo bruto anual y la moneda. Ejemplo: 30.000 EUR)",
	},
	{
		Field:  "location",
		Prompt: "¿En qué país o zona te gustaría trabajar? (Puedes indicar solo el país, o también región y ciudad si lo deseas)",
	},
	{
		Field:  "work_modality",
		Prompt: "¿En qué modalidad prefieres trabajar? (Presencial, Híbrido o A distancia)",
	},
}

// IntakeReply is what the intake service sends back after each user turn.
type IntakeReply struct {
	Message  string `json:"message"`
	Field    string `json:"field,omitempty"`
	Complete bool   `json:"complete"`
}

type IntakeService interface {
	Greet(userID uuid.UUID) (*IntakeReply, error)
	HandleAnswer(userID uuid.UUID, answer string) (*IntakeReply, error)
}

type intakeService struct {
	userRepo repositories.UserRepository
	chatRepo repositories.ChatMessageRepository
}

func NewIntakeService(userRepo repositories.UserRepository, chatRepo repositories.ChatMessageRepository) IntakeService {
	return &intakeService{userRepo: userRepo, chatRepo: chatRepo}
}

// record appends a turn to the user's transcript. Persistence failures are
// logged but never break the conversation.
func (s *intakeService) record(userID uuid.UUID, role, content string) {
	if s.chatRepo == nil {
		return
	}
	msg := &models.ChatMessage{UserID: userID, Role: role, Content: content}
	if err := s.chatRepo.Create(msg); err != nil {
		log.Printf("⚠️  Failed to save chat message for user %s: %v\n", userID, err)
	}
}

// Greet implements IntakeService: opens a chat session with either the next
// pending question or the profile summary.
func (s *intakeService) Greet(userID uuid.UUID) (*IntakeReply, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if user.ProfileComplete() {
		reply := &IntakeReply{Message: profileSummary(user), Complete: true}
		s.record(userID, models.ChatRoleAssistant, reply.Message)
		return reply, nil
	}

	q := nextQuestion(user)
	reply := &IntakeReply{
		Message: "¡Hola! Soy tu asistente laboral inteligente para OffHeadHunter.\n" + q.Prompt,
		Field:   q.Field,
	}
	s.record(userID, models.ChatRoleAssistant, reply.Message)
	return reply, nil
}

// HandleAnswer implements IntakeService: stores the answer for the first
// unanswered question and replies with the next one, or with the summary
// once the profile is complete. Blank answers re-ask the same question.
func (s *intakeService) HandleAnswer(userID uuid.UUID, answer string) (*IntakeReply, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if user.ProfileComplete() {
		reply := &IntakeReply{Message: profileSummary(user), Complete: true}
		s.record(userID, models.ChatRoleAssistant, reply.Message)
		return reply, nil
	}

	q := nextQuestion(user)

	answer = strings.TrimSpace(answer)
	if answer == "" {
		reply := &IntakeReply{
			Message: "No he entendido tu respuesta.\n" + q.Prompt,
			Field:   q.Field,
		}
		s.record(userID, models.ChatRoleAssistant, reply.Message)
		return reply, nil
	}

	s.record(userID, models.ChatRoleUser, answer)

	setPreference(user, q.Field, answer)
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	if user.ProfileComplete() {
		reply := &IntakeReply{Message: profileSummary(user), Complete: true}
		s.record(userID, models.ChatRoleAssistant, reply.Message)
		return reply, nil
	}

	next := nextQuestion(user)
	reply := &IntakeReply{Message: next.Prompt, Field: next.Field}
	s.record(userID, models.ChatRoleAssistant, reply.Message)
	return reply, nil
}

func nextQuestion(user *models.User) intakeQuestion {
	for _, q := range intakeQuestions {
		if strings.TrimSpace(preference(user, q.Field)) == "" {
			return q
		}
	}
	return intakeQuestions[len(intakeQuestions)-1]
}

func preference(user *models.User, field string) string {
	switch field {
	case "desired_position":
		return user.DesiredPosition
	case "salary_expectation":
		return user.SalaryExpectation
	case "location":
		return user.Location
	case "work_modality":
		return user.WorkModality
	}
	return ""
}

func setPreference(user *models.User, field, value string) {
	switch field {
	case "desired_position":
		user.DesiredPosition = value
	case "salary_expectation":
		user.SalaryExpectation = value
	case "location":
		user.Location = value
	case "work_modality":
		user.WorkModality = value
	}
}

func profileSummary(user *models.User) string {
	var b strings.Builder
	b.WriteString("Resumen de tu Perfil de Búsqueda:\n")
	b.WriteString(fmt.Sprintf("🔹 Cargo deseado: %s\n", user.DesiredPosition))
	b.WriteString(fmt.Sprintf("🔹 Expectativa salarial: %s\n", user.SalaryExpectation))
	b.WriteString(fmt.Sprintf("🔹 Ubicación: %s\n", user.Location))
	b.WriteString(fmt.Sprintf("🔹 Modalidad de trabajo: %s\n", user.WorkModality))
	b.WriteString("Ya hemos recopilado toda la información necesaria, ahora nos pondremos manos a la obra.")
	return b.String()
}
