// services/directory.go
package services

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"broker-intake-system/models"
	"broker-intake-system/utils"

	"github.com/gosimple/slug"
)

// BrokerDirectory is the immutable broker map built at process start.
// Lookup misses are normal control flow (bad URLs), not faults.
type BrokerDirectory struct {
	brokers map[string]*models.Broker
	order   []string
}

// defaultBrokers mirrors the launch partner set. Overridable via
// BROKER_CONFIG_PATH without a rebuild.
func defaultBrokers() []*models.Broker {
	return []*models.Broker{
		{
			ID:           "headway",
			Name:         "Headway",
			Description:  "International regulated broker.",
			LogoURL:      "/assets/logos/headway.png",
			ThemeColor:   "blue",
			MinDeposit:   1,
			ReferralLink: "https://headway.partners/open-account",
			PaymentMethods: []models.PaymentMethod{
				{Name: "Local Bank Transfer", Badge: "0% Fee"},
				{Name: "Digital Wallets (Kurimi, etc)", Badge: "Instant"},
				{Name: "Exchange Shops"},
			},
			Features: []models.Feature{
				{Title: "Easy Start", Description: "Start trading with just $1 deposit."},
				{Title: "Global Awards", Description: "Best Broker in Africa & Middle East."},
			},
		},
		{
			ID:           "valetax",
			Name:         "Valetax",
			Description:  "Premium ECN trading services.",
			LogoURL:      "/assets/logos/valetax.png",
			ThemeColor:   "teal",
			MinDeposit:   10,
			ReferralLink: "https://valetax.com/register",
			PaymentMethods: []models.PaymentMethod{
				{Name: "Local Bank Transfer", Badge: "0% Fee"},
				{Name: "Exchange Shops"},
			},
			Features: []models.Feature{
				{Title: "ECN Accounts", Description: "Raw spreads with deep liquidity."},
				{Title: "Fast Withdrawals", Description: "Same-day processing on local methods."},
			},
		},
	}
}

// NewBrokerDirectory builds the directory from built-in defaults, or from
// the JSON file at configPath when provided. Broker IDs are normalized to
// slugs so config typos ("My Broker") still resolve ("my-broker").
func NewBrokerDirectory(configPath string) (*BrokerDirectory, error) {
	brokers := defaultBrokers()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read broker config %s: %w", configPath, err)
		}
		var loaded []*models.Broker
		if err := json.Unmarshal(data, &loaded); err != nil {
			return nil, fmt.Errorf("invalid broker config %s: %w", configPath, err)
		}
		if len(loaded) > 0 {
			brokers = loaded
			log.Printf("📋 Loaded %d broker(s) from %s", len(loaded), configPath)
		}
	}

	d := &BrokerDirectory{brokers: make(map[string]*models.Broker, len(brokers))}
	for _, b := range brokers {
		id := slug.Make(b.ID)
		if id == "" {
			id = slug.Make(b.Name)
		}
		b.ID = id
		if b.MinDeposit <= 0 {
			b.MinDeposit = 1 // policy default
		}
		if _, dup := d.brokers[id]; dup {
			return nil, fmt.Errorf("duplicate broker id %q in config", id)
		}
		d.brokers[id] = b
		d.order = append(d.order, id)
	}
	sort.Strings(d.order)

	return d, nil
}

// Lookup resolves a broker by id. The boolean result is the whole story:
// a miss is expected for invalid URLs and must not be treated as an error.
func (d *BrokerDirectory) Lookup(id string) (*models.Broker, bool) {
	b, ok := d.brokers[id]
	return b, ok
}

// All returns the brokers in stable (sorted) order for the landing page.
func (d *BrokerDirectory) All() []*models.Broker {
	out := make([]*models.Broker, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.brokers[id])
	}
	return out
}

// SyncLogosToR2 uploads local logo assets to R2 and rewrites LogoURL to
// the public CDN URL. Runs once at startup, before the directory is
// handed to the router; missing files or upload failures leave the local
// reference in place. No-op unless R2 is configured.
func (d *BrokerDirectory) SyncLogosToR2(assetRoot string) {
	for _, id := range d.order {
		b := d.brokers[id]
		if !strings.HasPrefix(b.LogoURL, "/") {
			continue // already an absolute URL
		}
		localPath := filepath.Join(assetRoot, strings.TrimPrefix(b.LogoURL, "/"))
		key := "logos/" + b.ID + filepath.Ext(localPath)
		url, err := utils.UploadAssetToR2(localPath, key, "image/png")
		if err != nil {
			log.Printf("⚠️ Logo sync skipped for %s: %v", b.ID, err)
			continue
		}
		b.LogoURL = url
		log.Printf("✅ Logo for %s hosted at %s", b.ID, url)
	}
}
