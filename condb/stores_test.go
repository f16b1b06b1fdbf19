package condb

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2/log"

	"sneakershop/config"
)

func TestOpenMemory(t *testing.T) {
	var out bytes.Buffer
	log.SetOutput(&out)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	stores, err := Open(context.Background(), config.Config{StoreDriver: config.DriverMemory})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer stores.Close()

	if stores.Users == nil || stores.Products == nil {
		t.Fatal("stores not wired")
	}
	if n := strings.Count(out.String(), "in-memory"); n != 1 {
		t.Errorf("Expected one startup line, got %d:\n%s", n, out.String())
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), config.Config{StoreDriver: "sqlite"}); err == nil {
		t.Error("Expected an error for an unknown driver")
	}
}
