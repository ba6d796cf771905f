// Package loader turns the handler directory into command registrations.
//
// Every file in the handler directory is one unit. A unit's file stem,
// normalized to lowercase snake_case, is its canonical command name. Each unit
// exposes an Init function that receives a Registrar and registers its own
// command(s). The unit table is a plain slice literal produced at build time by
// cmd/handlergen, so discovery costs nothing at runtime and needs no reflection.
//
// Loading is all or nothing: if any unit fails, nothing is registered on the
// target and the error names the failing unit.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"tg-seed-bot/internal/dispatcher"
	"tg-seed-bot/internal/domain"
	"tg-seed-bot/pkg/logger"

	"github.com/iancoleman/strcase"
)

// maxCommandLength is the Telegram limit for bot command names
const maxCommandLength = 32

var (
	log           = logger.Component("loader")
	commandFormat = regexp.MustCompile(`^[a-z0-9_]+$`)
)

// Registry receives the registrations produced by Load
type Registry interface {
	Register(cmd string, h dispatcher.HandlerFunc) error
	Lookup(cmd string) (dispatcher.HandlerFunc, bool)
}

// Registrar is handed to a unit's Init function
type Registrar interface {
	// Command returns the canonical command name derived from the unit's file stem
	Command() string
	// Register binds name to h. The name is normalized before registration.
	Register(name string, h dispatcher.HandlerFunc) error
	// Commands lists every command registered so far. Handlers that call it at
	// event time see the complete set.
	Commands() []string
}

// Unit is one handler file
type Unit struct {
	Stem string
	Init func(r Registrar) error
}

// Normalize derives the canonical command name from a file name or stem.
// MyCoolCommand.go, myCoolCommand and my_cool_command all become my_cool_command.
func Normalize(stem string) (string, error) {
	base := filepath.Base(stem)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	name := strcase.ToSnake(base)

	if name == "" || !commandFormat.MatchString(name) {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidCommand, stem)
	}
	if len(name) > maxCommandLength {
		return "", fmt.Errorf("%w: %q is longer than %d characters", domain.ErrInvalidCommand, name, maxCommandLength)
	}
	return name, nil
}

// Scan lists the unit stems in dir, sorted. Test files, generated files,
// doc.go and hidden files are not units.
func Scan(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read handler directory: %w", err)
	}

	stems := []string{}
	for _, e := range entries {
		name := e.Name()
		if !e.Type().IsRegular() || !isUnitFile(name) {
			continue
		}
		stems = append(stems, strings.TrimSuffix(name, ".go"))
	}
	sort.Strings(stems)
	return stems, nil
}

func isUnitFile(name string) bool {
	switch {
	case strings.HasPrefix(name, "."), strings.HasPrefix(name, "_"):
		return false
	case !strings.HasSuffix(name, ".go"):
		return false
	case strings.HasSuffix(name, "_test.go"), strings.HasSuffix(name, "_gen.go"):
		return false
	case name == "doc.go":
		return false
	}
	return true
}

// CheckCollisions fails when two stems normalize to the same command
func CheckCollisions(stems []string) error {
	seen := make(map[string]string, len(stems))
	for _, stem := range stems {
		name, err := Normalize(stem)
		if err != nil {
			return err
		}
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("%w: units %q and %q both map to %q", domain.ErrDuplicateCommand, prev, stem, name)
		}
		seen[name] = stem
	}
	return nil
}

// Load runs every unit's Init against a staging dispatcher and, when all of
// them succeed, copies the registrations into reg. It returns the registered
// command names, sorted.
func Load(reg Registry, units []Unit) ([]string, error) {
	stems := make([]string, len(units))
	for i, u := range units {
		stems[i] = u.Stem
	}
	if err := CheckCollisions(stems); err != nil {
		return nil, err
	}

	staging := dispatcher.New()
	for _, u := range units {
		if u.Init == nil {
			return nil, fmt.Errorf("%w: %s has no Init function", domain.ErrUnitLoad, u.Stem)
		}

		command, _ := Normalize(u.Stem)
		r := &registrar{command: command, target: staging}
		if err := u.Init(r); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrUnitLoad, u.Stem, err)
		}
		if r.count == 0 {
			return nil, fmt.Errorf("%w: %s", domain.ErrNoRegistration, u.Stem)
		}
		log.WithField("unit", u.Stem).Debugf("loaded %d command(s)", r.count)
	}

	names := staging.Commands()
	for _, name := range names {
		if _, exists := reg.Lookup(name); exists {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateCommand, name)
		}
	}
	for _, name := range names {
		h, _ := staging.Lookup(name)
		if err := reg.Register(name, h); err != nil {
			return nil, fmt.Errorf("failed to register %s: %w", name, err)
		}
	}

	log.WithField("commands", strings.Join(names, ",")).Infof("registered %d command(s)", len(names))
	return names, nil
}

// registrar scopes registration to one unit
type registrar struct {
	command string
	target  *dispatcher.Dispatcher
	count   int
}

func (r *registrar) Command() string {
	return r.command
}

func (r *registrar) Register(name string, h dispatcher.HandlerFunc) error {
	normalized, err := Normalize(name)
	if err != nil {
		return err
	}
	if err := r.target.Register(normalized, h); err != nil {
		return err
	}
	r.count++
	return nil
}

func (r *registrar) Commands() []string {
	return r.target.Commands()
}
