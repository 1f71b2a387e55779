package groups_test

import (
	"context"
	"errors"
	"testing"

	mem "pet-care-hub/internal/adapters/storage/memory"
	"pet-care-hub/internal/domain/groups"
	"pet-care-hub/internal/domain/memberships"
	"pet-care-hub/internal/domain/pets"
	"pet-care-hub/internal/domain/users"
	"pet-care-hub/internal/platform/apperr"
)

type fixture struct {
	svc   *groups.Service
	users *users.Service
	pets  *pets.Service
	edges *memberships.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	usersSvc := users.NewService(mem.NewUserRepo())
	edges := memberships.NewService(mem.NewEdgeRepo())
	petsSvc := pets.NewService(mem.NewPetRepo(), usersSvc, edges)
	svc := groups.NewService(mem.NewGroupRepo(), usersSvc, petsSvc, edges)
	petsSvc.SetGroupDirectory(svc)
	return fixture{svc: svc, users: usersSvc, pets: petsSvc, edges: edges}
}

func (f fixture) user(t *testing.T, email string) string {
	t.Helper()
	u, err := f.users.Signup(context.Background(), users.SignupInput{Email: email, Password: "pw", Name: email})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	return u.ID
}

func (f fixture) pet(t *testing.T, actor, name string) string {
	t.Helper()
	p, err := f.pets.Create(context.Background(), actor, pets.CreateInput{Name: name})
	if err != nil {
		t.Fatalf("pets.Create: %v", err)
	}
	return p.ID
}

func TestService_Create_LinksActorUsersAndPets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1 := f.user(t, "u1@x.com")
	u2 := f.user(t, "u2@x.com")
	p := f.pet(t, u1, "Rex")

	g, err := f.svc.Create(ctx, u1, groups.CreateInput{Name: "Family", UserIDs: []string{u2, u1}, PetIDs: []string{p}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	v, err := f.svc.View(ctx, g.ID)
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if len(v.Members) != 2 {
		t.Fatalf("actor listed twice must not duplicate, got %+v", v.Members)
	}
	if len(v.Pets) != 1 || v.Pets[0].ID != p {
		t.Fatalf("expected pet in group, got %+v", v.Pets)
	}

	// el otro lado también lo ve
	pv, _ := f.pets.View(ctx, p)
	if len(pv.Groups) != 1 || pv.Groups[0].Name != "Family" {
		t.Fatalf("pet should list the group, got %+v", pv.Groups)
	}
	mine, _ := f.svc.ListForUser(ctx, u2)
	if len(mine) != 1 || mine[0].Group.ID != g.ID {
		t.Fatalf("u2 should see the group, got %+v", mine)
	}
}

func TestService_Create_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1 := f.user(t, "u1@x.com")

	if _, err := f.svc.Create(ctx, u1, groups.CreateInput{}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("name is required, got %v", err)
	}
	if _, err := f.svc.Create(ctx, u1, groups.CreateInput{Name: "G", PetIDs: []string{"ghost"}}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("unknown pet should be not found, got %v", err)
	}
	if _, err := f.svc.Create(ctx, u1, groups.CreateInput{Name: "G", UserIDs: []string{"ghost"}}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("unknown user should be not found, got %v", err)
	}
	if _, err := f.svc.Create(ctx, "ghost", groups.CreateInput{Name: "G"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("unknown actor should be not found, got %v", err)
	}
	if ids, _ := f.edges.RightsOf(ctx, memberships.KindUserGroup, "ghost"); len(ids) != 0 {
		t.Fatalf("no edge should point at an unknown user, got %v", ids)
	}
}

func TestService_RemovePet_BothDirections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1 := f.user(t, "u1@x.com")
	p := f.pet(t, u1, "Rex")
	g, _ := f.svc.Create(ctx, u1, groups.CreateInput{Name: "G", PetIDs: []string{p}})

	if err := f.svc.RemovePet(ctx, g.ID, p); err != nil {
		t.Fatalf("RemovePet: %v", err)
	}

	v, _ := f.svc.View(ctx, g.ID)
	if len(v.Pets) != 0 {
		t.Fatalf("group should not list the pet, got %+v", v.Pets)
	}
	pv, _ := f.pets.View(ctx, p)
	if len(pv.Groups) != 0 {
		t.Fatalf("pet should not list the group, got %+v", pv.Groups)
	}
}

func TestService_AddUsersAndPets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1 := f.user(t, "u1@x.com")
	u2 := f.user(t, "u2@x.com")
	p := f.pet(t, u2, "Mitzi")
	g, _ := f.svc.Create(ctx, u1, groups.CreateInput{Name: "G"})

	if err := f.svc.AddUsers(ctx, g.ID, nil); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("empty list should fail, got %v", err)
	}
	if err := f.svc.AddUsers(ctx, g.ID, []string{u2}); err != nil {
		t.Fatalf("AddUsers: %v", err)
	}
	if err := f.svc.AddPets(ctx, g.ID, []string{p, p}); err != nil {
		t.Fatalf("AddPets: %v", err)
	}
	if err := f.svc.AddPets(ctx, "ghost", []string{p}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("unknown group should be not found, got %v", err)
	}

	v, _ := f.svc.View(ctx, g.ID)
	if len(v.Members) != 2 || len(v.Pets) != 1 {
		t.Fatalf("unexpected view %+v", v)
	}

	if err := f.svc.RemoveUser(ctx, g.ID, u2); err != nil {
		t.Fatalf("RemoveUser: %v", err)
	}
	groupsOfU2, _ := f.edges.RightsOf(ctx, memberships.KindUserGroup, u2)
	if len(groupsOfU2) != 0 {
		t.Fatalf("u2 should have no groups, got %v", groupsOfU2)
	}
}

func TestService_Delete_DetachesEdges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1 := f.user(t, "u1@x.com")
	p := f.pet(t, u1, "Rex")
	g, _ := f.svc.Create(ctx, u1, groups.CreateInput{Name: "G", PetIDs: []string{p}})

	if err := f.svc.Delete(ctx, g.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := f.svc.GetByID(ctx, g.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("group should be gone, got %v", err)
	}
	left, _ := f.edges.RightsOf(ctx, memberships.KindPetGroup, p)
	userGroups, _ := f.edges.RightsOf(ctx, memberships.KindUserGroup, u1)
	if len(left) != 0 || len(userGroups) != 0 {
		t.Fatalf("dangling edges after delete: pet=%v user=%v", left, userGroups)
	}
}

func TestService_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1 := f.user(t, "u1@x.com")
	g, _ := f.svc.Create(ctx, u1, groups.CreateInput{Name: "G", Description: "d"})

	name := "Home"
	got, err := f.svc.Update(ctx, g.ID, groups.UpdateInput{Name: &name})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Name != "Home" || got.Description != "d" {
		t.Fatalf("unexpected %+v", got)
	}
	empty := " "
	if _, err := f.svc.Update(ctx, g.ID, groups.UpdateInput{Name: &empty}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("blank name should fail, got %v", err)
	}
}
