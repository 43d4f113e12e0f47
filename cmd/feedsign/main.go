// Command feedsign prints a signed feed URL, the way the crawler builds it.
// Useful to check a deployment by hand:
//
//	FEED_FEED_SECRET=... feedsign -base https://shop.example.com -channel 1
package main

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	feedapp "github.com/erp/clerkfeed/internal/application/feed"
	"github.com/erp/clerkfeed/internal/infrastructure/config"
	"github.com/google/uuid"
)

type options struct {
	base       string
	channelID  uint64
	entityType string
	orderID    uint64
	salt       string
}

func main() {
	var opts options
	flag.StringVar(&opts.base, "base", "http://localhost:8080", "Service origin, including the configured base path")
	flag.Uint64Var(&opts.channelID, "channel", 0, "Channel id")
	flag.StringVar(&opts.entityType, "type", "", "Restrict the feed to one entity type (orders, products, customers)")
	flag.Uint64Var(&opts.orderID, "order", 0, "Sign a sales tracking URL for this order instead of a feed URL")
	flag.StringVar(&opts.salt, "salt", "", "Salt to sign with (default: random)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	signing, err := feedapp.NewSigningContext(cfg.Feed.Secret)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid secret: %v\n", err)
		os.Exit(1)
	}
	validator, err := feedapp.NewSignatureValidator(signing)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid signing setup: %v\n", err)
		os.Exit(1)
	}

	if opts.salt == "" {
		opts.salt = uuid.NewString()
	}
	signed, err := signedURL(opts, validator.Sign(opts.salt, time.Now()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}
	fmt.Println(signed)
}

// signedURL builds the request URL for opts carrying salt and hash.
func signedURL(opts options, hash string) (string, error) {
	u, err := url.Parse(strings.TrimRight(opts.base, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("base url %q must be absolute", opts.base)
	}

	switch {
	case opts.orderID != 0:
		u.Path += "/sales-tracking/" + strconv.FormatUint(opts.orderID, 10)
	case opts.channelID != 0:
		u.Path += "/feed/" + strconv.FormatUint(opts.channelID, 10)
		if opts.entityType != "" {
			u.Path += "/" + url.PathEscape(opts.entityType)
		}
	default:
		return "", fmt.Errorf("either -channel or -order is required")
	}

	q := url.Values{}
	q.Set("salt", opts.salt)
	q.Set("hash", hash)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
