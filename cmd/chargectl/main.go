// chargectl is a terminal client for the charging network: station search and
// booking for drivers, charger upkeep for employees, aggregates for managers.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"chargenet/client"
	"chargenet/client/booking"
	"chargenet/client/discovery"
	"chargenet/client/geocode"
	"chargenet/client/session"
)

const defaultAPIURL = "http://localhost:8080"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cli, err := newCLI()
	if err != nil {
		fatal(err)
	}

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "signup":
		err = cli.signup(ctx, args)
	case "login":
		err = cli.login(ctx, args)
	case "logout":
		err = cli.logout()
	case "profile":
		err = cli.profile(ctx, args)
	case "search":
		err = cli.search(ctx, args)
	case "book":
		err = cli.book(ctx, args)
	case "reservations":
		err = cli.reservations(ctx)
	case "cancel":
		err = cli.cancel(ctx, args)
	case "complete":
		err = cli.complete(ctx, args)
	case "chargers":
		err = cli.chargers(ctx, args)
	case "maintenance":
		err = cli.maintenance(ctx, args)
	case "activate":
		err = cli.activate(ctx, args)
	case "stats":
		err = cli.stats(ctx, args)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: chargectl <command> [flags]

commands:
  signup        register a new account
  login         log in and store the session
  logout        drop the stored session
  profile       show or update the logged-in profile
  search        find stations near a location
  book          reserve a charger
  reservations  list your reservations
  cancel        cancel an active reservation
  complete      complete an active reservation
  chargers      list chargers of a station (or all available)
  maintenance   put a charger under maintenance (employee)
  activate      bring a charger back to available (employee)
  stats         per-station usage aggregates (manager)`)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "chargectl:", err.Error())
	os.Exit(1)
}

type cli struct {
	api   *client.Client
	store *session.FileStore
}

func newCLI() (*cli, error) {
	baseURL := os.Getenv("CHARGENET_API")
	if baseURL == "" {
		baseURL = defaultAPIURL
	}

	store, err := session.NewFileStore(os.Getenv("CHARGENET_SESSION"))
	if err != nil {
		return nil, err
	}

	api := client.New(baseURL)
	if sess, err := store.Load(); err == nil {
		api.SetToken(sess.Token)
	}
	return &cli{api: api, store: store}, nil
}

func (c *cli) currentSession() (*session.Session, error) {
	sess, err := c.store.Load()
	if errors.Is(err, session.ErrNoSession) {
		return nil, errors.New("not logged in, run chargectl login first")
	}
	return sess, err
}

func (c *cli) signup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email address")
	pass := fs.String("password", "", "password (min 8 characters)")
	battery := fs.Float64("battery", 0, "battery capacity in kWh")
	rangeKm := fs.Float64("range", 0, "full range in km")
	_ = fs.Parse(args)

	account, err := c.api.Signup(ctx, client.SignupRequest{
		Name:               *name,
		Email:              *email,
		Password:           *pass,
		BatteryCapacityKwh: *battery,
		FullRangeKm:        *rangeKm,
	})
	if err != nil {
		return err
	}
	fmt.Printf("account %d created for %s, now log in\n", account.ID, account.Email)
	return nil
}

func (c *cli) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	pass := fs.String("password", "", "password")
	_ = fs.Parse(args)

	auth, err := c.api.Login(ctx, *email, *pass)
	if err != nil {
		return err
	}

	if err := c.store.Save(&session.Session{
		Token:    auth.Token,
		ClientID: auth.Client.ID,
		Name:     auth.Client.Name,
		Email:    auth.Client.Email,
		Role:     auth.Client.Role,
		Battery:  auth.Client.BatteryCapacityKwh,
		RangeKm:  auth.Client.FullRangeKm,
	}); err != nil {
		return err
	}
	fmt.Printf("logged in as %s (%s)\n", auth.Client.Email, auth.Client.Role)
	return nil
}

func (c *cli) logout() error {
	if err := c.store.Clear(); err != nil {
		return err
	}
	fmt.Println("logged out")
	return nil
}

func (c *cli) profile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	name := fs.String("name", "", "new name")
	pass := fs.String("password", "", "new password")
	battery := fs.Float64("battery", 0, "new battery capacity in kWh")
	rangeKm := fs.Float64("range", 0, "new full range in km")
	_ = fs.Parse(args)

	sess, err := c.currentSession()
	if err != nil {
		return err
	}

	if *name == "" && *pass == "" && *battery == 0 && *rangeKm == 0 {
		fmt.Printf("%s <%s> role=%s battery=%.1fkWh range=%.0fkm\n",
			sess.Name, sess.Email, sess.Role, sess.Battery, sess.RangeKm)
		return nil
	}

	account, err := c.api.UpdateProfile(ctx, sess.Email, client.ProfileUpdate{
		Name:               *name,
		Password:           *pass,
		BatteryCapacityKwh: *battery,
		FullRangeKm:        *rangeKm,
	})
	if err != nil {
		return err
	}

	sess.Name = account.Name
	sess.Battery = account.BatteryCapacityKwh
	sess.RangeKm = account.FullRangeKm
	if err := c.store.Save(sess); err != nil {
		return err
	}
	fmt.Println("profile updated")
	return nil
}

func (c *cli) search(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	location := fs.String("location", "", "free-form location, resolved via geocoding")
	lat := fs.Float64("lat", 0, "latitude (alternative to -location)")
	lng := fs.Float64("lng", 0, "longitude (alternative to -location)")
	types := fs.String("types", "", "comma-separated charger types (AC_STANDARD,DC_FAST,DC_ULTRA_FAST)")
	at := fs.String("at", "", "desired charging time, RFC 3339 (default now)")
	_ = fs.Parse(args)

	query := discovery.Query{Latitude: *lat, Longitude: *lng}

	if *location != "" {
		resolver := geocode.NewResolver()
		result, err := resolver.Resolve(ctx, *location)
		if err != nil {
			return err
		}
		query.Latitude = result.Latitude
		query.Longitude = result.Longitude
		fmt.Printf("searching near %s\n", result.DisplayName)
	}

	if *types != "" {
		for _, t := range strings.Split(*types, ",") {
			if t = strings.TrimSpace(t); t != "" {
				query.ChargerTypes = append(query.ChargerTypes, strings.ToUpper(t))
			}
		}
	}

	if *at != "" {
		parsed, err := time.Parse(time.RFC3339, *at)
		if err != nil {
			return fmt.Errorf("invalid -at, expected RFC 3339: %w", err)
		}
		query.At = parsed
	}

	stations, err := discovery.NewSearcher(c.api).Search(ctx, query)
	if err != nil {
		return err
	}
	if len(stations) == 0 {
		fmt.Println("no stations found")
		return nil
	}

	for _, s := range stations {
		line := fmt.Sprintf("#%d %s, %s: %s away, %d available",
			s.Details.ID, s.Details.Name, s.Details.City, s.Distance, s.AvailableCount)
		if s.DiscountPercent != nil {
			line += fmt.Sprintf(", %.0f%% off", *s.DiscountPercent)
		}
		fmt.Println(line)
		for _, ch := range s.Details.Chargers {
			fmt.Printf("    charger %d: %s %s %.2f/kWh\n", ch.ID, ch.ChargerType, ch.Status, ch.PricePerKwh)
		}
	}
	return nil
}

func (c *cli) book(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("book", flag.ExitOnError)
	stationID := fs.Int64("station", 0, "station id")
	chargerID := fs.Int64("charger", 0, "charger id")
	battery := fs.Int("battery", -1, "current battery level percent (0-99)")
	at := fs.String("at", "", "start time, RFC 3339 (default now)")
	_ = fs.Parse(args)

	sess, err := c.currentSession()
	if err != nil {
		return err
	}
	if *stationID == 0 || *chargerID == 0 {
		return errors.New("-station and -charger are required")
	}

	chargers, err := c.api.StationChargers(ctx, *stationID)
	if err != nil {
		return err
	}
	var charger *client.Charger
	for i := range chargers {
		if chargers[i].ID == *chargerID {
			charger = &chargers[i]
			break
		}
	}
	if charger == nil {
		return fmt.Errorf("charger %d not found at station %d", *chargerID, *stationID)
	}

	var start time.Time
	if *at != "" {
		start, err = time.Parse(time.RFC3339, *at)
		if err != nil {
			return fmt.Errorf("invalid -at, expected RFC 3339: %w", err)
		}
	}

	reservation, err := booking.NewComposer(c.api).Book(ctx, booking.Input{
		ClientID:     sess.ClientID,
		Charger:      *charger,
		BatteryLevel: *battery,
		Start:        start,
	})
	if err != nil {
		return err
	}

	fmt.Printf("reservation %d: %s to %s, ~%.1f kWh, %.2f\n",
		reservation.ID,
		reservation.StartTime.Local().Format("Mon 15:04"),
		reservation.EstimatedEndTime.Local().Format("15:04"),
		reservation.EstimatedKwh,
		reservation.EstimatedCost)
	return nil
}

func (c *cli) reservations(ctx context.Context) error {
	sess, err := c.currentSession()
	if err != nil {
		return err
	}

	list, err := c.api.ClientReservations(ctx, sess.ClientID)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("no reservations")
		return nil
	}

	for _, r := range list {
		paid := ""
		if r.Paid {
			paid = " (paid)"
		}
		fmt.Printf("#%d charger %d %s %s -> %s %.2f%s\n",
			r.ID, r.ChargerID, r.Status,
			r.StartTime.Local().Format("2006-01-02 15:04"),
			r.EstimatedEndTime.Local().Format("15:04"),
			r.EstimatedCost, paid)
	}
	return nil
}

func (c *cli) cancel(ctx context.Context, args []string) error {
	id, err := parseIDArg("cancel", args)
	if err != nil {
		return err
	}
	reservation, err := c.api.CancelReservation(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("reservation %d cancelled\n", reservation.ID)
	return nil
}

func (c *cli) complete(ctx context.Context, args []string) error {
	id, err := parseIDArg("complete", args)
	if err != nil {
		return err
	}
	reservation, err := c.api.CompleteReservation(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("reservation %d completed\n", reservation.ID)
	return nil
}

func (c *cli) chargers(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("chargers", flag.ExitOnError)
	stationID := fs.Int64("station", 0, "station id (omit for all available chargers)")
	_ = fs.Parse(args)

	var list []client.Charger
	var err error
	if *stationID != 0 {
		list, err = c.api.StationChargers(ctx, *stationID)
	} else {
		list, err = c.api.AvailableChargers(ctx)
	}
	if err != nil {
		return err
	}

	for _, ch := range list {
		note := ""
		if ch.MaintenanceNote != "" {
			note = " (" + ch.MaintenanceNote + ")"
		}
		fmt.Printf("charger %d station %d %s %s %.2f/kWh%s\n",
			ch.ID, ch.StationID, ch.ChargerType, ch.Status, ch.PricePerKwh, note)
	}
	return nil
}

func (c *cli) maintenance(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("maintenance", flag.ExitOnError)
	chargerID := fs.Int64("charger", 0, "charger id")
	note := fs.String("note", "", "maintenance note")
	_ = fs.Parse(args)

	if *chargerID == 0 {
		return errors.New("-charger is required")
	}
	charger, err := c.api.UpdateChargerStatus(ctx, *chargerID, "UNDER_MAINTENANCE", *note)
	if err != nil {
		return err
	}
	fmt.Printf("charger %d is now under maintenance\n", charger.ID)
	return nil
}

func (c *cli) activate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("activate", flag.ExitOnError)
	chargerID := fs.Int64("charger", 0, "charger id")
	_ = fs.Parse(args)

	if *chargerID == 0 {
		return errors.New("-charger is required")
	}
	charger, err := c.api.UpdateChargerStatus(ctx, *chargerID, "AVAILABLE", "")
	if err != nil {
		return err
	}
	fmt.Printf("charger %d is now available\n", charger.ID)
	return nil
}

func (c *cli) stats(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	since := fs.String("since", "", "aggregate completed sessions since, RFC 3339 (default 30 days back)")
	_ = fs.Parse(args)

	var from time.Time
	if *since != "" {
		parsed, err := time.Parse(time.RFC3339, *since)
		if err != nil {
			return fmt.Errorf("invalid -since, expected RFC 3339: %w", err)
		}
		from = parsed
	}

	stats, err := c.api.StationStats(ctx, from)
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Println("no completed sessions in the period")
		return nil
	}

	fmt.Printf("%-30s %10s %12s %10s\n", "station", "sessions", "energy kWh", "revenue")
	for _, s := range stats {
		fmt.Printf("%-30s %10d %12.1f %10.2f\n", s.StationName, s.Sessions, s.EnergyKwh, s.Revenue)
	}
	return nil
}

func parseIDArg(cmd string, args []string) (int64, error) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	id := fs.Int64("id", 0, "reservation id")
	_ = fs.Parse(args)
	if *id == 0 {
		return 0, errors.New("-id is required")
	}
	return *id, nil
}
