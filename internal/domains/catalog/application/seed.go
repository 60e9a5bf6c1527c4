package application

import (
	"context"
	"fmt"
	"math/rand/v2"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/Apurer/go-dog-finder/internal/domains/catalog/domain"
	"github.com/Apurer/go-dog-finder/internal/domains/catalog/ports"
)

var seedBreeds = []string{
	"Affenpinscher", "Akita", "Beagle", "Bernese Mountain Dog", "Border Collie", "Boxer",
	"Chihuahua", "Dachshund", "Golden Retriever", "Husky", "Labrador Retriever", "Poodle",
	"Pug", "Samoyed", "Shiba Inu", "Whippet",
}

var seedNames = []string{
	"Ace", "Bailey", "Biscuit", "Coco", "Daisy", "Duke", "Finn", "Ginger", "Hazel", "Juno",
	"Koda", "Luna", "Maple", "Milo", "Nala", "Olive", "Pepper", "Rosie", "Scout", "Teddy",
}

var seedZips = []string{"02139", "10001", "30301", "60601", "73301", "94105", "98101"}

// GenerateDogs builds n plausible catalog entries. rng makes the output reproducible.
func GenerateDogs(n int, rng *rand.Rand) ([]domain.Dog, error) {
	dogs := make([]domain.Dog, 0, n)
	for range n {
		id, err := gonanoid.New()
		if err != nil {
			return nil, fmt.Errorf("generate dog id: %w", err)
		}
		dogs = append(dogs, domain.Dog{
			ID:       id,
			Name:     seedNames[rng.IntN(len(seedNames))],
			Breed:    seedBreeds[rng.IntN(len(seedBreeds))],
			Age:      rng.IntN(15),
			ZipCode:  seedZips[rng.IntN(len(seedZips))],
			ImageURL: fmt.Sprintf("https://images.example.com/dogs/%s.jpg", id),
		})
	}
	return dogs, nil
}

// Seed fills an empty repository with n generated dogs. A repository that already holds dogs is left alone.
func Seed(ctx context.Context, repo ports.Repository, n int, rng *rand.Rand) (int, error) {
	existing, err := repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count dogs: %w", err)
	}
	if existing > 0 || n <= 0 {
		return 0, nil
	}
	dogs, err := GenerateDogs(n, rng)
	if err != nil {
		return 0, err
	}
	if err := repo.Save(ctx, dogs...); err != nil {
		return 0, fmt.Errorf("save seed dogs: %w", err)
	}
	return len(dogs), nil
}
