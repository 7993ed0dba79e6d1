// Command cachectl is a small inspection CLI for a cachekit-backed store:
// put, get, remove, list keys, or report the size against either the
// in-memory reference backend or a SQLite-backed one, one command per
// invocation.
package main

import (
	"context"
	"encoding/gob"
	"fmt"
	"os"

	"github.com/agilira/cachekit"
	"github.com/agilira/cachekit/backend/memstore"
	"github.com/agilira/cachekit/backend/sqlitestore"
	flashflags "github.com/agilira/flash-flags"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "cachectl:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flashflags.New("cachectl")
	dbPath := fs.String("db", "", "path to a SQLite database file; empty uses an in-memory store")
	name := fs.String("name", "default", "logical cache name")
	maxEntries := fs.Int("max-entries", 0, "capacity limit (0 = unbounded)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return fmt.Errorf("usage: cachectl [flags] <put|get|remove|keys|size> [key] [value]")
	}
	command, rest := rest[0], rest[1:]

	backend, closeBackend, err := openBackend(*dbPath)
	if err != nil {
		return err
	}
	defer closeBackend()

	c, err := cachekit.New(backend, cachekit.Config{Name: *name, MaxEntries: *maxEntries})
	if err != nil {
		return err
	}

	ctx := context.Background()
	switch command {
	case "put":
		if len(rest) != 2 {
			return fmt.Errorf("usage: cachectl put <key> <value>")
		}
		return c.Put(ctx, rest[0], rest[1])

	case "get":
		if len(rest) != 1 {
			return fmt.Errorf("usage: cachectl get <key>")
		}
		value, found, err := c.Get(ctx, rest[0])
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("key %q not found", rest[0])
		}
		fmt.Println(value)
		return nil

	case "remove":
		if len(rest) != 1 {
			return fmt.Errorf("usage: cachectl remove <key>")
		}
		return c.Remove(ctx, rest[0])

	case "keys":
		keys, err := c.Keys(ctx)
		if err != nil {
			return err
		}
		for _, k := range keys {
			fmt.Println(k)
		}
		return nil

	case "size":
		n, err := c.Size(ctx)
		if err != nil {
			return err
		}
		fmt.Println(n)
		return nil

	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func openBackend(dbPath string) (cachekit.StorageBackend, func(), error) {
	if dbPath == "" {
		return memstore.New(), func() {}, nil
	}
	store, err := sqlitestore.Open(dbPath)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { store.Close() }, nil
}

func init() {
	gob.Register("")
}
