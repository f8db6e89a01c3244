// backend/internal/adapters/out/firestore/category_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	catdom "storefront/internal/domain/category"
)

// CategoryRepositoryFS implements category.Repository using Firestore.
//
// - collection: categories
// - docId: category.ID (fixtures use id == slug)
// - fields: name, slug, description, imageUrl
type CategoryRepositoryFS struct {
	base
}

func NewCategoryRepositoryFS(client *firestore.Client) *CategoryRepositoryFS {
	return &CategoryRepositoryFS{base: base{Client: client, Timeout: DefaultOpTimeout}}
}

func (r *CategoryRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection(colCategories)
}

// ListCategories returns every category ordered by name.
func (r *CategoryRepositoryFS) ListCategories(ctx context.Context) ([]catdom.Category, error) {
	ctx, cancel, err := r.begin(ctx, "ListCategories")
	if err != nil {
		return nil, err
	}
	defer cancel()

	out, err := r.listAll(ctx)
	if err != nil {
		return nil, mapErr("ListCategories", err)
	}
	return out, nil
}

func (r *CategoryRepositoryFS) listAll(ctx context.Context) ([]catdom.Category, error) {
	it := r.col().OrderBy("name", firestore.Asc).Documents(ctx)
	defer it.Stop()

	out := []catdom.Category{}
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		c, err := docToCategory(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// GetCategoryByID returns (nil, nil) if not found (nil policy).
func (r *CategoryRepositoryFS) GetCategoryByID(ctx context.Context, id string) (*catdom.Category, error) {
	id = strings.TrimSpace(id)
	if id == "" || strings.Contains(id, "/") {
		return nil, nil
	}

	ctx, cancel, err := r.begin(ctx, "GetCategoryByID")
	if err != nil {
		return nil, err
	}
	defer cancel()

	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, mapErr("GetCategoryByID", err)
	}
	c, err := docToCategory(snap)
	if err != nil {
		return nil, mapErr("GetCategoryByID", err)
	}
	return &c, nil
}

// GetCategoryBySlug returns (nil, nil) if not found.
func (r *CategoryRepositoryFS) GetCategoryBySlug(ctx context.Context, slug string) (*catdom.Category, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, nil
	}

	ctx, cancel, err := r.begin(ctx, "GetCategoryBySlug")
	if err != nil {
		return nil, err
	}
	defer cancel()

	it := r.col().Where("slug", "==", slug).Limit(1).Documents(ctx)
	defer it.Stop()

	snap, err := it.Next()
	if errors.Is(err, iterator.Done) {
		return nil, nil
	}
	if err != nil {
		return nil, mapErr("GetCategoryBySlug", err)
	}
	c, err := docToCategory(snap)
	if err != nil {
		return nil, mapErr("GetCategoryBySlug", err)
	}
	return &c, nil
}

// CreateCategory checks slug / id uniqueness and creates the doc in one transaction.
func (r *CategoryRepositoryFS) CreateCategory(ctx context.Context, in catdom.CreateCategoryInput) (*catdom.Category, error) {
	ctx, cancel, err := r.begin(ctx, "CreateCategory")
	if err != nil {
		return nil, err
	}
	defer cancel()

	c, err := catdom.New(in.ID, in.Name, in.Slug, in.Description, in.ImageURL)
	if err != nil {
		return nil, err
	}
	ref := r.col().NewDoc()
	if c.ID != "" {
		ref = r.col().Doc(c.ID)
	}
	c.ID = ref.ID

	err = r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		dup, err := tx.Documents(r.col().Where("slug", "==", c.Slug).Limit(1)).GetAll()
		if err != nil {
			return err
		}
		if len(dup) > 0 {
			return catdom.ErrConflict
		}
		if _, err := tx.Get(ref); err == nil {
			return catdom.ErrConflict
		} else if !isNotFound(err) {
			return err
		}
		return tx.Create(ref, categoryDocFromDomain(c))
	})
	if err != nil {
		if errors.Is(err, catdom.ErrConflict) {
			return nil, err
		}
		return nil, mapErr("CreateCategory", err)
	}
	return &c, nil
}

// getMany resolves categories by id in one round trip; missing ids are skipped.
func (r *CategoryRepositoryFS) getMany(ctx context.Context, ids []string) (map[string]catdom.Category, error) {
	out := map[string]catdom.Category{}
	if len(ids) == 0 {
		return out, nil
	}
	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		if id == "" || strings.Contains(id, "/") {
			continue
		}
		refs = append(refs, r.col().Doc(id))
	}
	if len(refs) == 0 {
		return out, nil
	}
	snaps, err := r.Client.GetAll(ctx, refs)
	if err != nil {
		return nil, err
	}
	for _, snap := range snaps {
		if snap == nil || !snap.Exists() {
			continue
		}
		c, err := docToCategory(snap)
		if err != nil {
			return nil, err
		}
		out[c.ID] = c
	}
	return out, nil
}

// -----------------------------------------
// Firestore DTO
// -----------------------------------------

type categoryDoc struct {
	Name        string  `firestore:"name"`
	Slug        string  `firestore:"slug"`
	Description *string `firestore:"description"`
	ImageURL    *string `firestore:"imageUrl"`
}

func categoryDocFromDomain(c catdom.Category) categoryDoc {
	return categoryDoc{
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		ImageURL:    c.ImageURL,
	}
}

func docToCategory(snap *firestore.DocumentSnapshot) (catdom.Category, error) {
	var d categoryDoc
	if err := snap.DataTo(&d); err != nil {
		return catdom.Category{}, err
	}
	// docId が source of truth
	return catdom.Category{
		ID:          snap.Ref.ID,
		Name:        strings.TrimSpace(d.Name),
		Slug:        strings.TrimSpace(d.Slug),
		Description: trimPtr(d.Description),
		ImageURL:    trimPtr(d.ImageURL),
	}, nil
}
