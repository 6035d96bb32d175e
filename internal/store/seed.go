package store

import (
	"github.com/google/uuid"

	"barberbook/backend/internal/domain"
)

// SeedID derives a stable id so reseeding is a no-op.
func SeedID(kind, key string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("barberbook:seed:"+kind+":"+key))
}

// DemoCatalog is the studio's launch catalog.
func DemoCatalog() Catalog {
	user := func(name, email, phone string, role domain.Role) domain.User {
		return domain.User{ID: SeedID("user", email), Name: name, Email: email, Phone: phone, Role: role}
	}
	service := func(name, description string, priceCents int64, minutes int) domain.Service {
		return domain.Service{
			ID:              SeedID("service", name),
			Name:            name,
			Description:     description,
			PriceCents:      priceCents,
			DurationMinutes: minutes,
			IsActive:        true,
		}
	}
	staff := func(name, specialty string, rating float64) domain.Staff {
		return domain.Staff{ID: SeedID("staff", name), Name: name, Specialty: specialty, Rating: rating, IsAvailable: true}
	}

	return Catalog{
		Users: []domain.User{
			user("Admin DangerBook", "admin@dangerbook.cl", "912345678", domain.RoleAdmin),
			user("Carlos Danger", "carlos@dangerbook.cl", "987654321", domain.RoleBarber),
			user("Miguel Estilo", "miguel@dangerbook.cl", "987654322", domain.RoleBarber),
			user("Andrés Master", "andres@dangerbook.cl", "987654323", domain.RoleBarber),
			user("Jose Pérez", "jose@test.cl", "987654324", domain.RoleUser),
			user("María González", "maria@test.cl", "987654325", domain.RoleUser),
		},
		Services: []domain.Service{
			service("Corte Clásico", "Corte tradicional con tijera y máquina. Incluye lavado y secado.", 1500000, 30),
			service("Corte Moderno", "Corte con estilo actual, degradado y diseños. Incluye lavado.", 1800000, 45),
			service("Barba Completa", "Arreglo de barba con máquina y navaja. Incluye toalla caliente.", 1200000, 30),
			service("Corte + Barba", "Combo completo: corte de cabello y arreglo de barba.", 2500000, 60),
			service("Afeitado Tradicional", "Afeitado clásico con navaja, toalla caliente y productos premium.", 1500000, 40),
			service("Tinte/Color", "Aplicación de color o tinte para cabello o barba.", 2000000, 50),
		},
		Staff: []domain.Staff{
			staff("Carlos Danger", "Cortes clásicos y barba", 4.9),
			staff("Miguel Estilo", "Cortes modernos y degradados", 4.8),
			staff("Andrés Master", "Afeitado tradicional", 5.0),
		},
	}
}
