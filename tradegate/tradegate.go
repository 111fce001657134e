// Package tradegate implements a live quote source backed by the Tradegate
// exchange. Tradegate answers by ISIN and quotes everything in EUR, which
// makes it a good fit for the securities found in the supported exports.
package tradegate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"

	"github.com/ppsnap/ppsnap"
)

const defaultBaseURL = "https://www.tradegate.de/refresh.php"

// Client queries Tradegate for the latest traded price of a security.
// The zero value is usable and talks to the public endpoint.
type Client struct {
	// HTTP is the client used for requests, http.DefaultClient when nil.
	HTTP *http.Client
	// BaseURL overrides the quote endpoint, for tests.
	BaseURL string
}

var _ ppsnap.Quoter = (*Client)(nil)

// Quote fetches the latest price for an ISIN or Tradegate symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (ppsnap.Quote, error) {
	httpc := c.HTTP
	if httpc == nil {
		httpc = http.DefaultClient
	}
	base := c.BaseURL
	if base == "" {
		base = defaultBaseURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?isin="+symbol, nil)
	if err != nil {
		return ppsnap.Quote{}, fmt.Errorf("cannot create quote request for %q: %w", symbol, err)
	}
	resp, err := httpc.Do(req)
	if err != nil {
		return ppsnap.Quote{}, fmt.Errorf("quote request for %q failed: %w", symbol, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ppsnap.Quote{}, fmt.Errorf("quote request for %q: %s: %w", symbol, resp.Status, ppsnap.ErrQuoteUnavailable)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return ppsnap.Quote{}, fmt.Errorf("cannot read quote response for %q: %w", symbol, err)
	}
	var jobj any
	if err := json.Unmarshal(buf.Bytes(), &jobj); err != nil {
		return ppsnap.Quote{}, fmt.Errorf("cannot parse quote response for %q: %w", symbol, err)
	}

	// last is the last transaction, it moves slower than the bid but the
	// bid can be 0. Tradegate renders an empty last as "./.".
	jval, err := jsonpath.Get("$.last", jobj)
	if err != nil || jval == "./." {
		log.Printf("no last price for %q, falling back to bid", symbol)
		jval, err = jsonpath.Get("$.bid", jobj)
		if err != nil {
			return ppsnap.Quote{}, fmt.Errorf("no price in quote response for %q: %w", symbol, ppsnap.ErrQuoteUnavailable)
		}
	}

	val, err := asFloat(jval)
	if err != nil {
		return ppsnap.Quote{}, fmt.Errorf("unreadable price for %q: %w", symbol, err)
	}
	if val == 0 {
		// an empty bid comes back as 0, there is no value to return.
		return ppsnap.Quote{}, fmt.Errorf("empty quote for %q: %w", symbol, ppsnap.ErrQuoteUnavailable)
	}
	return ppsnap.Quote{Price: decimal.NewFromFloat(val), Currency: "EUR"}, nil
}

// asFloat reads a price value that this weird API returns sometimes as a
// number and sometimes as a localized string like "123,45".
func asFloat(jval any) (float64, error) {
	switch v := jval.(type) {
	case float64:
		return v, nil
	case string:
		s := strings.ReplaceAll(v, ",", ".")
		s = strings.ReplaceAll(s, " ", "")
		val, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid price string %q: %w", v, err)
		}
		return val, nil
	default:
		return 0, fmt.Errorf("price is neither a float nor a string: %v", jval)
	}
}
