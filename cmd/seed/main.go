// seed inserts the local dev catalog: three course modules with sections
// and quiz questions, plus one full-course account.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/practicelearn/course-portal/internal/domain"
	"github.com/practicelearn/course-portal/internal/infrastructure/postgres"
)

const seedEmail = "seed@test.local"

type moduleSpec struct {
	id       string
	title    string
	duration int
	points   int
	minTier  domain.Tier
	sections []sectionSpec
}

type sectionSpec struct {
	title string
	body  string
}

type questionSpec struct {
	id          string
	moduleID    string
	category    string
	prompt      string
	options     []string
	answerIndex int
	rationale   string
}

var modules = []moduleSpec{
	{
		id: "intro-wound-healing", title: "Introduction to Wound Healing",
		duration: 30, points: 1, minTier: domain.TierPreview,
		sections: []sectionSpec{
			{"The phases of healing", "Haemostasis, inflammation, proliferation, and remodelling..."},
			{"Factors that delay healing", "Perfusion, nutrition, infection, and pressure..."},
		},
	},
	{
		id: "wound-assessment", title: "Structured Wound Assessment",
		duration: 60, points: 2, minTier: domain.TierOnlineOnly,
		sections: []sectionSpec{
			{"Wound bed preparation", "The TIME framework: tissue, infection, moisture, edge..."},
			{"Measurement and documentation", "Consistent technique for length, width, depth and undermining..."},
			{"Classification systems", "Pressure injury staging and lower-limb ulcer aetiology..."},
		},
	},
	{
		id: "advanced-dressings", title: "Advanced Dressing Selection",
		duration: 90, points: 3, minTier: domain.TierFullCourse,
		sections: []sectionSpec{
			{"Dressing categories", "Films, foams, hydrocolloids, alginates, and antimicrobials..."},
			{"Matching dressing to wound", "Exudate level, infection status, and peri-wound condition..."},
		},
	},
}

var questions = []questionSpec{
	{
		id: "wa-q1", moduleID: "wound-assessment", category: "assessment",
		prompt:  "Which element of the TIME framework addresses non-viable tissue?",
		options: []string{"Tissue", "Infection", "Moisture", "Edge"}, answerIndex: 0,
		rationale: "The T in TIME stands for tissue management: debridement of non-viable tissue.",
	},
	{
		id: "wa-q2", moduleID: "wound-assessment", category: "documentation",
		prompt:  "Wound depth should be measured with:",
		options: []string{"A gloved finger", "A sterile probe", "Visual estimate", "A ruler on the surface"}, answerIndex: 1,
		rationale: "A sterile probe gives a repeatable depth measurement without trauma.",
	},
	{
		id: "wa-q3", moduleID: "wound-assessment", category: "assessment",
		prompt:  "Undermining is best described as:",
		options: []string{"Surface maceration", "Tissue destruction under intact skin at the wound edge", "A tunnel into deep tissue", "Peri-wound erythema"}, answerIndex: 1,
		rationale: "Undermining extends under the wound margin; tunnelling is a discrete tract.",
	},
	{
		id: "ad-q1", moduleID: "advanced-dressings", category: "dressing",
		prompt:  "A heavily exuding wound is best managed with:",
		options: []string{"A film dressing", "A hydrocolloid", "An alginate or foam", "Dry gauze"}, answerIndex: 2,
		rationale: "Alginates and foams absorb heavy exudate while keeping the bed moist.",
	},
}

func main() {
	ctx := context.Background()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, databaseURL); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	accounts := postgres.NewAccountRepository(pool)
	acct, err := accounts.Upsert(ctx, seedEmail, "Seed Account", domain.TierFullCourse)
	if err != nil {
		log.Fatalf("seed account: %v", err)
	}
	fmt.Printf("account %s (%s)\n", acct.Email, acct.Tier)

	for pos, m := range modules {
		_, err := pool.Exec(ctx,
			`INSERT INTO modules (id, title, duration_minutes, points, min_tier, position)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO NOTHING`,
			m.id, m.title, m.duration, m.points, m.minTier.Rank(), pos)
		if err != nil {
			log.Fatalf("seed module %s: %v", m.id, err)
		}
		for spos, s := range m.sections {
			_, err := pool.Exec(ctx,
				`INSERT INTO sections (module_id, position, title, body)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (module_id, position) DO NOTHING`,
				m.id, spos, s.title, s.body)
			if err != nil {
				log.Fatalf("seed section %s/%d: %v", m.id, spos, err)
			}
		}
		fmt.Printf("module %s (%d sections)\n", m.id, len(m.sections))
	}

	for pos, q := range questions {
		_, err := pool.Exec(ctx,
			`INSERT INTO questions (id, module_id, position, category, prompt, options, answer_index, rationale)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO NOTHING`,
			q.id, q.moduleID, pos, q.category, q.prompt, q.options, q.answerIndex, q.rationale)
		if err != nil {
			log.Fatalf("seed question %s: %v", q.id, err)
		}
	}
	fmt.Printf("%d questions\n", len(questions))
}
