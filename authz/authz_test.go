package authz

import (
	"testing"

	"league-management-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

func TestCanWriteDirectOwner(t *testing.T) {
	team := &models.Team{ID: "t1", ExternalUserID: "u1"}

	if !CanWrite(Actor{ID: "u1"}, team) {
		t.Fatal("owner should be allowed to write their team")
	}
	if CanWrite(Actor{ID: "u2"}, team) {
		t.Fatal("non-owner must be denied")
	}
	if !CanWrite(Actor{ID: "u2", Admin: true}, team) {
		t.Fatal("administrators write anything")
	}
}

func TestCanWriteOneHop(t *testing.T) {
	team := &models.Team{ID: "t1", ExternalUserID: "u1"}
	player := &models.Player{ID: "p1", TeamID: &team.ID, Team: team}

	if !CanWrite(Actor{ID: "u1"}, player) {
		t.Fatal("team owner should reach the player through one hop")
	}
	if CanWrite(Actor{ID: "u2"}, player) {
		t.Fatal("stranger must be denied")
	}

	// A free agent resolves no owner at all.
	orphan := &models.Player{ID: "p2"}
	if CanWrite(Actor{ID: "u1"}, orphan) {
		t.Fatal("player without a team has no owner to match")
	}
	if !CanWrite(Actor{ID: "u1", Admin: true}, orphan) {
		t.Fatal("admin still writes ownerless players")
	}
}

func TestCanWriteEnrollment(t *testing.T) {
	enr := &models.Enrollment{
		ID:   "e1",
		Team: models.Team{ID: "t1", ExternalUserID: "u1"},
	}
	if !CanWrite(Actor{ID: "u1"}, enr) {
		t.Fatal("enrollment follows the team's owner")
	}
	if CanWrite(Actor{ID: "u2"}, enr) {
		t.Fatal("stranger must be denied")
	}
}

func TestCanWriteNoOwnershipPath(t *testing.T) {
	// Sports, tournaments and statistics carry no owner; only admins write.
	if CanWrite(Actor{ID: "u1"}, nil) {
		t.Fatal("ownerless entity types deny non-admin writes")
	}
	if !CanWrite(Actor{ID: "u1", Admin: true}, nil) {
		t.Fatal("admin writes ownerless entity types")
	}
}

func TestAnonymousActor(t *testing.T) {
	team := &models.Team{ID: "t1", ExternalUserID: ""}
	if CanWrite(Actor{}, team) {
		t.Fatal("empty actor must never match an empty owner field")
	}
}

func TestCanRead(t *testing.T) {
	if !CanRead(Actor{}) {
		t.Fatal("reads are unrestricted")
	}
}

func TestActorFromCtx(t *testing.T) {
	app := fiber.New()
	c := app.AcquireCtx(&fasthttp.RequestCtx{})
	defer app.ReleaseCtx(c)

	// No middleware ran: anonymous actor.
	if got := ActorFromCtx(c); got.ID != "" || got.Admin {
		t.Fatalf("expected zero actor on bare context, got %+v", got)
	}

	c.Locals("actor", Actor{ID: "u1", Admin: true})
	got := ActorFromCtx(c)
	if got.ID != "u1" || !got.Admin {
		t.Fatalf("expected stored actor back, got %+v", got)
	}

	// Wrong type in the slot falls back to anonymous.
	c.Locals("actor", "not-an-actor")
	if got := ActorFromCtx(c); got.ID != "" {
		t.Fatalf("expected zero actor for foreign local, got %+v", got)
	}
}
