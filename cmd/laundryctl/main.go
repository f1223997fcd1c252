package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"

	"laundromat-backend/client"
	"laundromat-backend/models"
	"laundromat-backend/utils"
)

type options struct {
	server   string
	username string
	password string
	view     string
	query    string
	format   string
	timezone string
	timeout  time.Duration
}

func main() {
	var opts options
	flag.StringVar(&opts.server, "server", envOr("LAUNDRY_SERVER", "http://localhost:8080"), "API base URL")
	flag.StringVar(&opts.username, "user", os.Getenv("AUTH_USERNAME"), "staff username")
	flag.StringVar(&opts.password, "password", os.Getenv("AUTH_PASSWORD"), "staff password")
	flag.StringVar(&opts.view, "view", "orders", "what to list: orders or customers")
	flag.StringVar(&opts.query, "query", "", "filter by customer name or phone number")
	flag.StringVar(&opts.format, "format", "table", "output format: table or csv")
	flag.StringVar(&opts.timezone, "tz", "America/Halifax", "time zone used to print dates")
	flag.DurationVar(&opts.timeout, "timeout", 30*time.Second, "overall request timeout")
	flag.Parse()

	log := logrus.New()
	log.SetOutput(os.Stderr)

	if err := run(opts, os.Stdout, logrus.NewEntry(log)); err != nil {
		log.Fatal(err)
	}
}

// run logs in, prints the requested view and always logs out again.
func run(opts options, out io.Writer, log *logrus.Entry) error {
	loc, err := time.LoadLocation(opts.timezone)
	if err != nil {
		return fmt.Errorf("unknown time zone: %w", err)
	}
	if opts.format == "csv" && opts.view != "orders" {
		return errors.New("csv output is only available for orders")
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	c, err := client.New(opts.server)
	if err != nil {
		return fmt.Errorf("invalid server address: %w", err)
	}
	if _, err := c.Login(ctx, opts.username, opts.password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	defer func() {
		if err := c.Logout(context.Background()); err != nil {
			log.WithError(err).Warn("logout failed")
		}
	}()

	if opts.format == "csv" {
		data, err := c.ExportLaundryOrdersCSV(ctx, opts.query)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		_, err = out.Write(data)
		return err
	}

	session := client.NewSession(c)
	if err := session.Load(ctx); err != nil {
		return fmt.Errorf("failed to load data: %w", err)
	}

	switch opts.view {
	case "orders":
		return printOrders(out, session.State.FilterOrders(opts.query), loc)
	case "customers":
		return printCustomers(out, session.State.FilterCustomers(opts.query), loc)
	default:
		return fmt.Errorf("unknown view %q", opts.view)
	}
}

func printOrders(w io.Writer, orders []models.LaundryOrder, loc *time.Location) error {
	table := tablewriter.NewWriter(w)
	table.Header("Date", "Name", "Phone Number", "Loads", "Price", "Drop-off", "Pick-up")
	for _, o := range orders {
		var name, phone string
		if o.Customer != nil {
			name, phone = o.Customer.Name, o.Customer.PhoneNumber.String()
		}
		if err := table.Append(
			utils.FormatLocal(o.Date, loc),
			name,
			phone,
			strconv.Itoa(o.Loads),
			o.Price.StringFixed(2),
			utils.FormatLocal(o.DropOffDate, loc),
			utils.FormatLocal(o.PickUpDate, loc),
		); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d orders\n", len(orders))
	return err
}

func printCustomers(w io.Writer, customers []models.Customer, loc *time.Location) error {
	table := tablewriter.NewWriter(w)
	table.Header("Name", "Phone Number", "Address", "Since")
	for _, cu := range customers {
		if err := table.Append(cu.Name, cu.PhoneNumber.String(), cu.Address, utils.FormatLocal(cu.Date, loc)); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d customers\n", len(customers))
	return err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
