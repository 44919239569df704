package exchange

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"guvenlik-backend/internal/apperr"
	"guvenlik-backend/internal/money"

	"github.com/shopspring/decimal"
)

const (
	sourceTCMB   = "tcmb"
	maxFeedBytes = 1 << 20
	tcmbDate     = "01/02/2006"
)

// Quote is one currency line of the central bank bulletin, per single unit.
type Quote struct {
	Currency string
	Date     time.Time
	Buying   decimal.Decimal
	Selling  decimal.NullDecimal
}

// today.xml
type tcmbBulletin struct {
	XMLName    xml.Name       `xml:"Tarih_Date"`
	Date       string         `xml:"Date,attr"`
	Currencies []tcmbCurrency `xml:"Currency"`
}

type tcmbCurrency struct {
	Code         string `xml:"CurrencyCode,attr"`
	Unit         string `xml:"Unit"`
	ForexBuying  string `xml:"ForexBuying"`
	ForexSelling string `xml:"ForexSelling"`
}

type TCMBClient struct {
	url  string
	http *http.Client
}

func NewTCMBClient(url string, timeout time.Duration) *TCMBClient {
	return &TCMBClient{url: url, http: &http.Client{Timeout: timeout}}
}

func upstream(reason string, err error) error {
	return &apperr.UpstreamError{Source: sourceTCMB, Reason: reason, Err: err}
}

// Fetch returns the USD quote of the current bulletin.
func (c *TCMBClient) Fetch(ctx context.Context) (Quote, error) {
	return c.FetchCurrency(ctx, money.USD)
}

func (c *TCMBClient) FetchCurrency(ctx context.Context, currency string) (Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Quote{}, upstream("request", err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return Quote{}, upstream("unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Quote{}, upstream(fmt.Sprintf("status %d", resp.StatusCode), nil)
	}

	var b tcmbBulletin
	if err := xml.NewDecoder(io.LimitReader(resp.Body, maxFeedBytes)).Decode(&b); err != nil {
		return Quote{}, upstream("malformed feed", err)
	}
	return b.quote(strings.ToUpper(currency))
}

func (b tcmbBulletin) quote(currency string) (Quote, error) {
	date, err := time.Parse(tcmbDate, strings.TrimSpace(b.Date))
	if err != nil {
		return Quote{}, upstream("missing bulletin date", err)
	}

	for _, cur := range b.Currencies {
		if !strings.EqualFold(cur.Code, currency) {
			continue
		}
		unit := decimal.NewFromInt(1)
		if s := strings.TrimSpace(cur.Unit); s != "" {
			u, err := decimal.NewFromString(s)
			if err != nil || !u.IsPositive() {
				return Quote{}, upstream("invalid unit", err)
			}
			unit = u
		}

		buying, err := decimal.NewFromString(strings.TrimSpace(cur.ForexBuying))
		if err != nil || !buying.IsPositive() {
			return Quote{}, upstream("invalid ForexBuying", err)
		}
		q := Quote{Currency: currency, Date: date.UTC(), Buying: buying.Div(unit)}

		// satış kuru yoksa yalnızca alış ile devam
		if s := strings.TrimSpace(cur.ForexSelling); s != "" {
			if selling, err := decimal.NewFromString(s); err == nil && selling.IsPositive() {
				q.Selling = money.Null(selling.Div(unit))
			}
		}
		return q, nil
	}
	return Quote{}, upstream("currency "+currency+" not in bulletin", nil)
}
