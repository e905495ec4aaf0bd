package services

import (
	"testing"

	"github.com/beaconworks/beacon-go/internal/domain/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePostRepo struct {
	posts map[string]*content.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]*content.Post)}
}

func (f *fakePostRepo) FindByID(id string) (*content.Post, error) {
	return f.posts[id], nil
}

func (f *fakePostRepo) FindBySlug(slug string) (*content.Post, error) {
	for _, p := range f.posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePostRepo) List(publishedOnly bool) ([]*content.Post, error) {
	var out []*content.Post
	for _, p := range f.posts {
		if !publishedOnly || p.Published {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePostRepo) Store(post *content.Post) error {
	f.posts[post.ID] = post
	return nil
}

func (f *fakePostRepo) Update(post *content.Post) error {
	f.posts[post.ID] = post
	return nil
}

func (f *fakePostRepo) Delete(id string) error {
	delete(f.posts, id)
	return nil
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Why Go? Part 2!  ", "why-go-part-2"},
		{"already-a-slug", "already-a-slug"},
		{"Ünïcode falls AWAY", "n-code-falls-away"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in))
	}
}

func TestPostCreateDerivesSlugAndStampsPublish(t *testing.T) {
	repo := newFakePostRepo()
	svc := NewPostService(repo, newTestLogger(t))

	post, err := svc.Create(PostInput{Title: "My First Post", Published: true})

	require.NoError(t, err)
	assert.Equal(t, "my-first-post", post.Slug)
	assert.NotEmpty(t, post.ID)
	require.NotNil(t, post.PublishedAt)
}

func TestPostCreateRejectsDuplicateSlug(t *testing.T) {
	repo := newFakePostRepo()
	svc := NewPostService(repo, newTestLogger(t))

	_, err := svc.Create(PostInput{Title: "Same Title"})
	require.NoError(t, err)

	_, err = svc.Create(PostInput{Title: "Same Title"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestPostUpdateKeepsOriginalPublishStamp(t *testing.T) {
	repo := newFakePostRepo()
	svc := NewPostService(repo, newTestLogger(t))

	post, err := svc.Create(PostInput{Title: "Draft", Published: true})
	require.NoError(t, err)
	firstStamp := *post.PublishedAt

	// Unpublish then republish: the original stamp survives.
	_, err = svc.Update(post.ID, PostInput{Title: "Draft", Published: false})
	require.NoError(t, err)
	updated, err := svc.Update(post.ID, PostInput{Title: "Draft", Published: true})
	require.NoError(t, err)

	require.NotNil(t, updated.PublishedAt)
	assert.Equal(t, firstStamp, *updated.PublishedAt)
}

func TestPostUpdateUnknownID(t *testing.T) {
	svc := NewPostService(newFakePostRepo(), newTestLogger(t))

	_, err := svc.Update("missing", PostInput{Title: "X"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
