// Command cart manages a SneakerShop cart kept in a local storage file.
//
//	cart [flags] login <email> <password>
//	cart [flags] add <cart-link | product-id> [qty] [size] [color]
//	cart [flags] remove <product-id> [size] [color]
//	cart [flags] set <product-id> <qty> [size] [color]
//	cart [flags] show | clear | logout
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"sneakershop/cart"
)

func main() {
	home, _ := os.UserHomeDir()
	apiURL := flag.String("api", envOr("SNEAKERSHOP_API", "http://localhost:5001"), "API base URL")
	storePath := flag.String("storage", filepath.Join(home, ".sneakershop", "storage.json"), "local storage file")
	timeout := flag.Duration("timeout", 10*time.Second, "API request timeout")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	storage := cart.NewLocalStorage(*storePath)
	api := cart.NewAPIClient(*apiURL, *timeout)

	if err := run(context.Background(), storage, api, args); err != nil {
		log.Errorw("Command failed", "command", args[0], "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, storage cart.Storage, api *cart.APIClient, args []string) error {
	session := cart.NewSession(storage)
	c, err := cart.Open(storage, api)
	if err != nil {
		return err
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		if len(rest) != 2 {
			return fmt.Errorf("usage: login <email> <password>")
		}
		resp, err := api.Login(ctx, rest[0], rest[1])
		if err != nil {
			return err
		}
		if err := session.Save(resp); err != nil {
			return err
		}
		fmt.Printf("Logged in as %s\n", resp.User.Email)
		return nil

	case "logout":
		return session.Logout()

	case "add":
		if len(rest) == 0 {
			return fmt.Errorf("usage: add <cart-link | product-id> [qty] [size] [color]")
		}
		if strings.Contains(rest[0], "/") {
			err = c.AddFromURL(ctx, rest[0])
		} else {
			qty := 1
			if len(rest) > 1 {
				if qty, err = strconv.Atoi(rest[1]); err != nil {
					return fmt.Errorf("invalid qty %q", rest[1])
				}
			}
			err = c.AddItem(ctx, rest[0], qty, arg(rest, 2), arg(rest, 3))
		}
		if err != nil {
			return err
		}
		return show(c)

	case "remove":
		if len(rest) == 0 {
			return fmt.Errorf("usage: remove <product-id> [size] [color]")
		}
		if err := c.RemoveItem(rest[0], arg(rest, 1), arg(rest, 2)); err != nil {
			return err
		}
		return show(c)

	case "set":
		if len(rest) < 2 {
			return fmt.Errorf("usage: set <product-id> <qty> [size] [color]")
		}
		qty, err := strconv.Atoi(rest[1])
		if err != nil {
			return fmt.Errorf("invalid qty %q", rest[1])
		}
		if _, err := c.SetQuantity(rest[0], arg(rest, 2), arg(rest, 3), qty); err != nil {
			return err
		}
		return show(c)

	case "show":
		return show(c)

	case "clear":
		return c.Clear()
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func show(c *cart.Cart) error {
	if c.State() == cart.StateEmpty {
		fmt.Println("Your cart is empty")
		return nil
	}
	for _, it := range c.Items() {
		fmt.Printf("%-24s size=%-4s color=%-8s qty=%-2d %s\n", it.Name, it.Size, it.Color, it.Qty, it.Price.StringFixed(2))
	}
	t := c.Totals()
	fmt.Printf("Items: %s  Tax: %s  Shipping: %s  Total: %s\n",
		t.ItemsPrice.StringFixed(2), t.TaxPrice.StringFixed(2), t.ShippingPrice.StringFixed(2), t.TotalPrice.StringFixed(2))
	return nil
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
