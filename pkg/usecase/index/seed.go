package index

import (
	"context"
	"fmt"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"

	"github.com/m-mizutani/fauxios/pkg/model"
)

// SeedAuthors loads author reference data from a YAML file and stores it.
// Existing authors with the same ID are overwritten, so re-seeding after an
// edit is safe.
func (u *UseCase) SeedAuthors(ctx context.Context, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return goerr.Wrap(err, "failed to read author seed file", goerr.V("path", path))
	}

	var authors []*model.Author
	if err := yaml.Unmarshal(raw, &authors); err != nil {
		return goerr.Wrap(err, "failed to parse author seed file", goerr.V("path", path))
	}
	if len(authors) == 0 {
		return goerr.New("author seed file is empty", goerr.V("path", path))
	}

	for _, author := range authors {
		if author.AuthorID == "" || author.Name == "" {
			return goerr.New("author entry is missing authorId or name", goerr.V("author", author))
		}
	}

	if err := u.repo.PutAuthors(ctx, authors); err != nil {
		return err
	}

	fmt.Fprintf(u.output, "Seeded %d author(s)\n", len(authors))
	return nil
}
