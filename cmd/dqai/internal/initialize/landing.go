package initialize

import (
	"context"
	"fmt"

	"github.com/dqai/oneapp/pkg/tables"
)

const landingPageConfigDDL = `CREATE TABLE IF NOT EXISTS %[1]s (
	id SERIAL PRIMARY KEY,
	business_id INTEGER REFERENCES %[2]s(id) ON DELETE CASCADE,
	hero_title TEXT DEFAULT 'Welcome to Our Platform',
	hero_subtitle TEXT DEFAULT 'Transform your data into insights',
	hero_image_url TEXT,
	hero_button_text TEXT DEFAULT 'Get Started',
	hero_button_link TEXT,
	hero_visible BOOLEAN DEFAULT TRUE,
	features_title TEXT DEFAULT 'Key Features',
	features_subtitle TEXT,
	features_visible BOOLEAN DEFAULT TRUE,
	carousel_title TEXT DEFAULT 'What Our Users Say',
	carousel_visible BOOLEAN DEFAULT TRUE,
	cta_title TEXT DEFAULT 'Ready to get started?',
	cta_subtitle TEXT,
	cta_button_text TEXT DEFAULT 'Start Free Trial',
	cta_button_link TEXT,
	cta_visible BOOLEAN DEFAULT TRUE,
	demo_link TEXT,
	demo_label TEXT DEFAULT 'Try Demo',
	primary_color TEXT DEFAULT '#2563eb',
	secondary_color TEXT DEFAULT '#64748b',
	logo_url TEXT,
	favicon_url TEXT,
	footer_text TEXT,
	company_name TEXT,
	landing_page_enabled BOOLEAN DEFAULT TRUE,
	created_at TIMESTAMP DEFAULT NOW(),
	updated_at TIMESTAMP DEFAULT NOW()
)`

// DefaultLandingPageConfig returns the landing page seeded for businessID
func DefaultLandingPageConfig(businessID int64) LandingPageConfig {
	return LandingPageConfig{
		BusinessID: businessID,

		HeroTitle:      "Welcome to OneApp",
		HeroSubtitle:   "A comprehensive data quality management solution",
		HeroImageURL:   "https://via.placeholder.com/1200x600?text=OneApp",
		HeroButtonText: "Get Started",
		HeroButtonLink: "/#/login",
		HeroVisible:    true,

		FeaturesTitle:    "Key Features",
		FeaturesSubtitle: "Everything you need for data quality",
		FeaturesVisible:  true,

		CarouselTitle:   "What Our Users Say",
		CarouselVisible: true,

		CTATitle:      "Ready to get started?",
		CTASubtitle:   "Join thousands of organizations improving their data quality",
		CTAButtonText: "Start Free Trial",
		CTAButtonLink: "/#/login",
		CTAVisible:    true,

		DemoLink:  "/#/login?demo=true",
		DemoLabel: "Try Demo",

		PrimaryColor:   "#2563eb",
		SecondaryColor: "#64748b",

		LogoURL:    "https://via.placeholder.com/200x50?text=OneApp+Logo",
		FaviconURL: "https://via.placeholder.com/32x32?text=Logo",

		FooterText:  "© 2025 OneApp. All rights reserved.",
		CompanyName: "OneApp",
	}
}

func (i *Initializer) ensureLandingPageConfig(ctx context.Context, store Store) error {
	i.logger.Info("Setting up default landing page configuration...")

	landing := tables.Name(tables.LandingPageConfig)
	i.bestEffort(ctx, store, fmt.Sprintf(landingPageConfigDDL, landing, tables.Name(tables.Businesses)))
	i.bestEffort(ctx, store, fmt.Sprintf(
		"ALTER TABLE %[1]s ADD CONSTRAINT %[1]s_business_id_key UNIQUE (business_id)", landing))
	i.bestEffort(ctx, store, fmt.Sprintf(
		"ALTER TABLE %s ADD COLUMN IF NOT EXISTS landing_page_enabled BOOLEAN DEFAULT TRUE", landing))

	businessID := int64(1)
	if id, err := firstBusinessID(ctx, store); err != nil {
		return err
	} else if id != nil {
		businessID = *id
	}

	exists, err := store.LandingPageConfigExists(ctx, businessID)
	if err != nil {
		return fmt.Errorf("failed to look up landing page configuration: %w", err)
	}
	if exists {
		i.logger.Info("Landing page configuration already exists")
		return nil
	}

	if err := store.InsertLandingPageConfig(ctx, DefaultLandingPageConfig(businessID)); err != nil {
		return fmt.Errorf("failed to create landing page configuration: %w", err)
	}
	i.logger.Info("Created default landing page configuration")
	return nil
}
