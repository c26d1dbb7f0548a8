// Package main provides the Locationator command-line client. It talks
// to a running daemon for reverse geocoding and current location, and
// can read coordinates from image EXIF data and write results back as
// XMP sidecars.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/locationator/locationator/internal/exifutil"
	"github.com/locationator/locationator/internal/geo"
)

const usageText = `usage: locationator [flags] <command> [command flags] [args]

Commands:
  lookup LATITUDE LONGITUDE   reverse geocode a coordinate pair
  current-location            report the device's current location
  from-exif FILE              reverse geocode using a file's EXIF GPS data
  write-xmp FILE              reverse geocode a file and write an XMP sidecar

Flags:
  --port N     daemon port (default LOCATIONATOR_PORT or 8000)

Command flags:
  -i, --indent N    indentation level for JSON output (default 4)
  -I, --no-indent   do not indent JSON output
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("locationator", flag.ContinueOnError)
	global.SetOutput(stderr)
	port := global.Int("port", 0, "daemon port")
	global.Usage = func() { fmt.Fprint(stderr, usageText) }

	if err := global.Parse(args); err != nil {
		return 2
	}
	rest := global.Args()
	if len(rest) == 0 {
		fmt.Fprint(stderr, usageText)
		return 2
	}

	baseURL := fmt.Sprintf("http://localhost:%d", resolvePort(*port))
	app := &app{client: newClient(baseURL), stdout: stdout, stderr: stderr}

	ctx := context.Background()
	command, commandArgs := rest[0], rest[1:]

	var err error
	switch command {
	case "lookup":
		err = app.lookup(ctx, commandArgs)
	case "current-location":
		err = app.currentLocation(ctx, commandArgs)
	case "from-exif":
		err = app.fromExif(ctx, commandArgs)
	case "write-xmp":
		err = app.writeXMP(ctx, commandArgs)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", command, usageText)
		return 2
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// resolvePort picks the daemon port: flag, then environment, then 8000.
func resolvePort(flagPort int) int {
	if flagPort > 0 {
		return flagPort
	}
	if env := os.Getenv("LOCATIONATOR_PORT"); env != "" {
		if p, err := strconv.Atoi(env); err == nil && p > 0 {
			return p
		}
	}
	return 8000
}

type app struct {
	client *client
	stdout io.Writer
	stderr io.Writer
}

// indentFlags registers the shared output-formatting flags on a command
// flag set, with short and long spellings.
func indentFlags(fs *flag.FlagSet) (indent *int, noIndent *bool) {
	indent = fs.Int("indent", -1, "indentation level for JSON output")
	fs.IntVar(indent, "i", -1, "indentation level for JSON output")
	noIndent = fs.Bool("no-indent", false, "do not indent JSON output")
	fs.BoolVar(noIndent, "I", false, "do not indent JSON output")
	return indent, noIndent
}

// resolveIndent applies the original tool's rules: default 4 spaces,
// --no-indent for compact output, and the two flags are exclusive.
func resolveIndent(indent int, noIndent bool) (int, error) {
	if noIndent && indent >= 0 {
		return 0, errors.New("cannot specify both --indent and --no-indent")
	}
	if noIndent {
		return 0, nil
	}
	if indent < 0 {
		return 4, nil
	}
	return indent, nil
}

func (a *app) printJSON(raw json.RawMessage, indent int) error {
	var buf bytes.Buffer
	var err error
	if indent > 0 {
		err = json.Indent(&buf, raw, "", spaces(indent))
	} else {
		err = json.Compact(&buf, raw)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, buf.String())
	return nil
}

func (a *app) lookup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("lookup", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	indent, noIndent := indentFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errors.New("lookup requires LATITUDE and LONGITUDE arguments")
	}

	latitude, err := strconv.ParseFloat(fs.Arg(0), 64)
	if err != nil {
		return fmt.Errorf("invalid latitude %q", fs.Arg(0))
	}
	longitude, err := strconv.ParseFloat(fs.Arg(1), 64)
	if err != nil {
		return fmt.Errorf("invalid longitude %q", fs.Arg(1))
	}

	level, err := resolveIndent(*indent, *noIndent)
	if err != nil {
		return err
	}

	if err := a.client.ping(ctx); err != nil {
		return fmt.Errorf("could not connect to server: %w (is the daemon running?)", err)
	}

	raw, err := a.client.reverseGeocode(ctx, geo.Coordinate{Latitude: latitude, Longitude: longitude})
	if err != nil {
		return err
	}
	return a.printJSON(raw, level)
}

func (a *app) currentLocation(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("current-location", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	indent, noIndent := indentFlags(fs)
	accuracy := fs.String("accuracy", "", "desired accuracy (best, navigation, 100m, 1km, 10m, reduced, 3km)")
	timeout := fs.Duration("timeout", 0, "how long to wait for a location fix")
	if err := fs.Parse(args); err != nil {
		return err
	}

	level, err := resolveIndent(*indent, *noIndent)
	if err != nil {
		return err
	}

	var acc geo.Accuracy
	if *accuracy != "" {
		acc, err = geo.ParseAccuracy(*accuracy)
		if err != nil {
			return err
		}
	}

	if err := a.client.ping(ctx); err != nil {
		return fmt.Errorf("could not connect to server: %w (is the daemon running?)", err)
	}

	raw, err := a.client.currentLocation(ctx, acc, *timeout)
	if err != nil {
		return err
	}
	return a.printJSON(raw, level)
}

func (a *app) fromExif(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("from-exif", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	indent, noIndent := indentFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("from-exif requires a FILE argument")
	}

	level, err := resolveIndent(*indent, *noIndent)
	if err != nil {
		return err
	}

	coord, err := exifutil.Coordinates(fs.Arg(0))
	if err != nil {
		return err
	}

	if err := a.client.ping(ctx); err != nil {
		return fmt.Errorf("could not connect to server: %w (is the daemon running?)", err)
	}

	raw, err := a.client.reverseGeocode(ctx, coord)
	if err != nil {
		return err
	}
	return a.printJSON(raw, level)
}

func (a *app) writeXMP(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("write-xmp", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("write-xmp requires a FILE argument")
	}
	imagePath := fs.Arg(0)

	coord, err := exifutil.Coordinates(imagePath)
	if err != nil {
		return err
	}

	if err := a.client.ping(ctx); err != nil {
		return fmt.Errorf("could not connect to server: %w (is the daemon running?)", err)
	}

	raw, err := a.client.reverseGeocode(ctx, coord)
	if err != nil {
		return err
	}

	var placemark geo.Placemark
	if err := json.Unmarshal(raw, &placemark); err != nil {
		return fmt.Errorf("decode placemark: %w", err)
	}

	fields := exifutil.XMPFieldsFromPlacemark(&placemark)
	sidecar, err := exifutil.WriteSidecar(imagePath, fields)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "Wrote the following XMP metadata to %s:\n", sidecar)
	m := fields.Map()
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(a.stdout, "%s: %s\n", key, m[key])
	}
	return nil
}

func spaces(n int) string {
	s := make([]byte, n)
	for i := range s {
		s[i] = ' '
	}
	return string(s)
}
