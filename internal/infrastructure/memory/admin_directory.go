package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"waybackhome/internal/domain/entities"
	"waybackhome/internal/ports/output"
)

var _ output.AdminProvisioner = (*AdminDirectory)(nil)

type AdminDirectory struct {
	mu     sync.RWMutex
	admins map[string]time.Time
}

// NewAdminDirectory seeds the directory with the given emails.
func NewAdminDirectory(emails ...string) *AdminDirectory {
	d := &AdminDirectory{admins: make(map[string]time.Time)}
	for _, e := range emails {
		d.admins[entities.NormalizeEmail(e)] = time.Now().UTC()
	}
	return d
}

func (d *AdminDirectory) IsAdmin(_ context.Context, email string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.admins[entities.NormalizeEmail(email)]
	return ok, nil
}

func (d *AdminDirectory) Grant(_ context.Context, email string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := entities.NormalizeEmail(email)
	if _, ok := d.admins[key]; !ok {
		d.admins[key] = time.Now().UTC()
	}
	return nil
}

func (d *AdminDirectory) Revoke(_ context.Context, email string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.admins, entities.NormalizeEmail(email))
	return nil
}

func (d *AdminDirectory) ListAdmins(_ context.Context) ([]entities.Admin, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]entities.Admin, 0, len(d.admins))
	for email, at := range d.admins {
		out = append(out, entities.Admin{Email: email, CreatedAt: at})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}
