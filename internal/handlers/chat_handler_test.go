package handlers

import (
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Rarvelom/OffHeadHunter-Reboot-Final-Project/internal/services"
)

type fakeIntake struct {
	greeting *services.IntakeReply
	greetErr error
	replies  []*services.IntakeReply
	answers  []string
}

func (f *fakeIntake) Greet(userID uuid.UUID) (*services.IntakeReply, error) {
	return f.greeting, f.greetErr
}

func (f *fakeIntake) HandleAnswer(userID uuid.UUID, answer string) (*services.IntakeReply, error) {
	f.answers = append(f.answers, answer)
	if len(f.replies) == 0 {
		return nil, fmt.Errorf("no scripted reply")
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply, nil
}

// fakeChatConn feeds scripted client messages into the session loop and
// records everything written back.
type fakeChatConn struct {
	inbound []string
	written []interface{}
}

func (c *fakeChatConn) ReadMessage() (int, []byte, error) {
	if len(c.inbound) == 0 {
		return 0, nil, io.EOF
	}
	msg := c.inbound[0]
	c.inbound = c.inbound[1:]
	return 1, []byte(msg), nil
}

func (c *fakeChatConn) WriteJSON(v interface{}) error {
	c.written = append(c.written, v)
	return nil
}

func TestChatSession_RunsUntilProfileComplete(t *testing.T) {
	intake := &fakeIntake{
		greeting: &services.IntakeReply{Message: "¿A qué posición te gustaría aplicar?", Field: "desired_position"},
		replies: []*services.IntakeReply{
			{Message: "¿Cuáles son tus expectativas salariales?", Field: "salary_expectation"},
			{Message: "Resumen de tu Perfil de Búsqueda", Complete: true},
		},
	}
	handler := NewChatHandler(intake, nil)

	conn := &fakeChatConn{inbound: []string{"Backend developer", "35.000 EUR", "should never be read"}}
	handler.runSession(conn, uuid.New())

	// Greeting plus one reply per consumed answer; the loop stops at the
	// completion reply without reading further messages.
	if len(conn.written) != 3 {
		t.Fatalf("expected 3 messages written, got %d", len(conn.written))
	}
	if len(intake.answers) != 2 {
		t.Fatalf("expected 2 answers handled, got %d: %v", len(intake.answers), intake.answers)
	}
	if intake.answers[0] != "Backend developer" {
		t.Fatalf("unexpected first answer: %q", intake.answers[0])
	}
	last, ok := conn.written[2].(*services.IntakeReply)
	if !ok || !last.Complete {
		t.Fatalf("expected the final write to be the completion reply, got %#v", conn.written[2])
	}
}

func TestChatSession_GreetErrorEndsSession(t *testing.T) {
	intake := &fakeIntake{greetErr: fmt.Errorf("user not found")}
	handler := NewChatHandler(intake, nil)

	conn := &fakeChatConn{inbound: []string{"hola"}}
	handler.runSession(conn, uuid.New())

	if len(conn.written) != 1 {
		t.Fatalf("expected a single error message, got %d writes", len(conn.written))
	}
	if len(intake.answers) != 0 {
		t.Fatal("no answers should be handled after a greet failure")
	}
}

func TestRequireWebSocketUpgrade(t *testing.T) {
	app := fiber.New()
	app.Get("/users/:id/chat", RequireWebSocketUpgrade, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	plain := httptest.NewRequest("GET", "/users/"+uuid.NewString()+"/chat", nil)
	resp, err := app.Test(plain)
	if err != nil {
		t.Fatalf("plain request: %v", err)
	}
	if resp.StatusCode != fiber.StatusUpgradeRequired {
		t.Fatalf("expected 426 for a plain request, got %d", resp.StatusCode)
	}

	upgrade := httptest.NewRequest("GET", "/users/"+uuid.NewString()+"/chat", nil)
	upgrade.Header.Set("Connection", "Upgrade")
	upgrade.Header.Set("Upgrade", "websocket")
	resp, err = app.Test(upgrade)
	if err != nil {
		t.Fatalf("upgrade request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected upgrade requests to pass through, got %d", resp.StatusCode)
	}
}
