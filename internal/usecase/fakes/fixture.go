package fakes

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/projexnest-backend/internal/domain/entity"
	"github.com/ignatzorin/projexnest-backend/internal/domain/valueobject"
)

// Fixture организация владельца с клиентом, проектом и шаблоном.
type Fixture struct {
	OwnerID  uuid.UUID
	Org      *entity.Organization
	Client   *entity.Client
	Project  *entity.Project
	Template *entity.Template
}

// SeedFixture заполняет хранилище минимальным набором данных.
// Паникует при ошибке.
func (s *Store) SeedFixture(templateContent valueobject.Content) Fixture {
	ctx := context.Background()
	fx := Fixture{OwnerID: uuid.New()}

	fx.Org = must(entity.NewOrganization("Demo Construction Co."))
	mustDo(s.Organizations().CreateWithOwner(ctx, fx.Org, fx.Org.OwnerMembership(fx.OwnerID)))

	fx.Client = must(entity.NewClient(fx.Org.ID, "Jane Smith", "jane@example.com", nil, nil))
	mustDo(s.Clients().Create(ctx, fx.Client))

	fx.Project = must(entity.NewProject(fx.Org.ID, fx.Client.ID, "Smith Bathroom", ""))
	fx.Project.ClientName = fx.Client.Name
	mustDo(s.Projects().Create(ctx, fx.Project))

	fx.Template = must(entity.NewTemplate(fx.Org.ID, "Standard Bathroom Remodel", templateContent))
	mustDo(s.Templates().Create(ctx, fx.Template))

	return fx
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func mustDo(err error) {
	if err != nil {
		panic(err)
	}
}
