// fontmatch CLI - Google Fonts catalog and pairing tool
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joeblew999/plat-fontmatch/pkg/catalog"
	"github.com/joeblew999/plat-fontmatch/pkg/config"
	"github.com/joeblew999/plat-fontmatch/pkg/db"
	"github.com/joeblew999/plat-fontmatch/pkg/font"
	"github.com/joeblew999/plat-fontmatch/pkg/log"
	"github.com/joeblew999/plat-fontmatch/pkg/pairing"
	"github.com/joeblew999/plat-fontmatch/pkg/session"
)

const version = "fontmatch v0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Keep stdout for command output.
	log.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	switch os.Args[1] {
	case "catalog":
		catalogCmd(os.Args[2:])
	case "shuffle":
		shuffleCmd(os.Args[2:])
	case "href":
		hrefCmd(os.Args[2:])
	case "version":
		fmt.Println(version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`fontmatch - Google Fonts pairing CLI

Usage:
  fontmatch <command> [options]

Commands:
  catalog    Resolve and print the font catalog
  shuffle    Print a sequence of font pairs
  href       Print the stylesheet URL for a family
  version    Show version
  help       Show this help

Examples:
  fontmatch catalog -refresh
  fontmatch catalog -category serif
  fontmatch shuffle -n 10 -lock primary -seed 42
  fontmatch href -family "Playfair Display" -weights 400,700,900

Environment Variables:
  DATA_PATH            Base data directory (default: ./.data)
  FONT_CACHE_PATH      Catalog cache file (default: $DATA_PATH/catalog.json)
  DATABASE_PATH        SQLite database used by -sqlite (default: $DATA_PATH/plat-fontmatch.db)
  FONTMATCH_LOG_LEVEL  debug, info, warn or error`)
}

// catalogFlags are shared by the commands that resolve the catalog.
type catalogFlags struct {
	refresh  *bool
	cache    *string
	sqlite   *bool
	endpoint *string
	offline  *bool
	timeout  *time.Duration
}

func addCatalogFlags(fs *flag.FlagSet) catalogFlags {
	return catalogFlags{
		refresh:  fs.Bool("refresh", false, "Ignore the cached catalog and fetch it again"),
		cache:    fs.String("cache", config.GetCatalogCachePath(), "Catalog cache file"),
		sqlite:   fs.Bool("sqlite", false, "Cache the catalog in the server database ($DATABASE_PATH) instead of -cache"),
		endpoint: fs.String("endpoint", font.GoogleFontsMetadataURL, "Catalog metadata endpoint"),
		offline:  fs.Bool("offline", false, "Use the built-in fallback catalog"),
		timeout:  fs.Duration("timeout", 15*time.Second, "Metadata request timeout"),
	}
}

func (f catalogFlags) resolve() ([]font.Entry, string) {
	if *f.offline {
		return font.Fallback(), catalog.SourceFallback
	}

	var cache catalog.CacheStore = catalog.NewFileCache(*f.cache)
	if *f.sqlite {
		database, err := db.Open(config.GetDatabasePath())
		if err != nil {
			fmt.Printf("Error opening database: %v\n", err)
			os.Exit(1)
		}
		defer database.Close()
		cache = db.NewCatalogCache(database.SqlConn(), db.DefaultCatalogCacheKey)
	}

	p := catalog.NewProvider(
		catalog.WithEndpoints(*f.endpoint),
		catalog.WithCache(cache),
		catalog.WithForceRefresh(*f.refresh),
		catalog.WithTimeout(*f.timeout),
	)
	entries := p.Catalog(context.Background())
	return entries, p.Source()
}

func catalogCmd(args []string) {
	fs := flag.NewFlagSet("catalog", flag.ExitOnError)
	cf := addCatalogFlags(fs)
	category := fs.String("category", "", "Only list this category")
	query := fs.String("q", "", "Only list families containing this text")
	fs.Parse(args)

	entries, source := cf.resolve()

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FAMILY\tCATEGORY\tWEIGHTS")
	shown := 0
	for _, e := range entries {
		if *category != "" && e.Category != font.ParseCategory(*category) {
			continue
		}
		if *query != "" && !strings.Contains(strings.ToLower(e.Family), strings.ToLower(*query)) {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Family, e.Category, joinInts(e.Weights))
		shown++
	}
	tw.Flush()

	fmt.Printf("\n%d of %d fonts (source: %s)\n", shown, len(entries), source)
}

func shuffleCmd(args []string) {
	fs := flag.NewFlagSet("shuffle", flag.ExitOnError)
	cf := addCatalogFlags(fs)
	n := fs.Int("n", 5, "Number of pairs to print")
	lock := fs.String("lock", "none", "Pin a slot: none, primary or secondary")
	seed := fs.Uint64("seed", 0, "Random seed (default: time based)")
	fs.Parse(args)

	mode, err := session.ParseLock(*lock)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}

	entries, source := cf.resolve()
	rng := rand.New(rand.NewPCG(*seed, *seed))

	// A loader without a fetcher settles at once, so no stylesheet is requested.
	c, err := session.New(entries, font.NewLoader(nil, nil), session.WithEngineOptions(pairing.WithRand(rng)))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer c.Close()

	if mode != session.LockNone {
		if _, err := c.ToggleLock(mode); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("%d fonts (source: %s), lock: %s, seed: %d\n\n", len(entries), source, mode, *seed)
	ctx := context.Background()
	for i := 0; i < *n; i++ {
		if i > 0 {
			if _, err := c.Shuffle(ctx); err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
		}
		pair := c.State().Pair
		fmt.Printf("%3d. %-28s %s\n", i+1, pair.Primary.Family, pair.Secondary.Family)
		fmt.Printf("     %-28s %s\n", pair.Primary.Stack(), pair.Secondary.Stack())
	}
}

func hrefCmd(args []string) {
	fs := flag.NewFlagSet("href", flag.ExitOnError)
	family := fs.String("family", "", "Font family name")
	weights := fs.String("weights", "", "Weights the family offers, comma separated (default: 400,700)")
	base := fs.String("base", font.GoogleFontsAPI, "Stylesheet API base URL")
	fs.Parse(args)

	if *family == "" {
		fmt.Println("Error: -family is required")
		os.Exit(1)
	}

	available, err := parseInts(*weights)
	if err != nil {
		fmt.Printf("Error: invalid -weights: %v\n", err)
		os.Exit(1)
	}
	e := font.NewEntry(*family, available, "")

	loader := font.NewLoader(nil, nil, font.WithStylesheetBase(*base))
	fmt.Println(loader.Href(e.Family, e.Weights))
}

func parseInts(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
