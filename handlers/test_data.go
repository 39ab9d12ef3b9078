// Note: To generate demo data locally, use:
// curl -X POST "http://localhost:8080/api/test/generate-users?count=5"

package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/rand"

	"fundingnl/backend/database"
	"fundingnl/backend/handlers/respond"
	"fundingnl/backend/models"
	"fundingnl/backend/services/completion"
)

// DemoPassword is the password of every generated account.
const DemoPassword = "demopass123"

var dutchCities = []string{
	"Amsterdam", "Rotterdam", "Utrecht", "Eindhoven", "Delft",
	"Groningen", "Wageningen", "Leiden", "Enschede", "Den Haag",
}

// DemoUser is one generated founder or investor with their extension.
type DemoUser struct {
	Email    string
	Profile  models.Profile
	Startup  *models.StartupProfile
	Investor *models.InvestorProfile
}

// DemoGenerator creates fake but complete accounts for local development.
type DemoGenerator struct {
	db     *sql.DB
	logger *zap.Logger
	faker  *gofakeit.Faker
	rnd    *rand.Rand
}

// NewDemoGenerator seeds both the faker and the role picker, so a seed always
// produces the same accounts.
func NewDemoGenerator(db *sql.DB, seed uint64, logger *zap.Logger) *DemoGenerator {
	return &DemoGenerator{
		db:     db,
		logger: logger,
		faker:  gofakeit.New(int64(seed)),
		rnd:    rand.New(rand.NewSource(seed)),
	}
}

func (g *DemoGenerator) pick(from []string) string {
	return from[g.rnd.Intn(len(from))]
}

// pickSome returns 1 to max distinct values.
func (g *DemoGenerator) pickSome(from []string, max int) []string {
	n := 1 + g.rnd.Intn(max)
	perm := g.rnd.Perm(len(from))
	out := make([]string, 0, n)
	for _, i := range perm[:n] {
		out = append(out, from[i])
	}
	return out
}

// Fake builds the i-th account in memory.
func (g *DemoGenerator) Fake(i int) DemoUser {
	first, last := g.faker.FirstName(), g.faker.LastName()
	company := g.faker.Company()
	slug := strings.ToLower(first + "-" + last)

	u := DemoUser{
		Email: fmt.Sprintf("demo%d.%s@example.nl", i, strings.ToLower(first)),
		Profile: models.Profile{
			FullName:    first + " " + last,
			Bio:         g.faker.Sentence(14),
			AvatarURL:   fmt.Sprintf("https://i.pravatar.cc/300?u=%s", slug),
			LinkedInURL: "https://www.linkedin.com/in/" + slug,
			CompanyName: company,
		},
	}

	if g.rnd.Intn(2) == 0 {
		u.Profile.UserType = models.UserTypeFounder
		u.Startup = &models.StartupProfile{
			Sector:      g.pick(models.Industries),
			Stage:       g.pick(models.InvestmentStages),
			Description: g.faker.Sentence(18),
			Website:     "https://" + g.faker.DomainName(),
			Location:    g.pick(dutchCities),
		}
	} else {
		u.Profile.UserType = models.UserTypeInvestor
		u.Investor = &models.InvestorProfile{
			InvestmentThesis:    g.faker.Sentence(16),
			InvestmentStages:    g.pickSome(models.InvestmentStages, 3),
			PreferredIndustries: g.pickSome(models.Industries, 4),
		}
	}
	u.Profile.Status = completion.Compute(&u.Profile, u.Startup, u.Investor).Status()
	return u
}

// DemoSummary reports what Generate inserted.
type DemoSummary struct {
	Message      string `json:"message"`
	UsersCreated int    `json:"users_created"`
	Founders     int    `json:"founders"`
	Investors    int    `json:"investors"`
	Failed       int    `json:"failed"`
}

// Generate inserts count accounts in one transaction. Each account gets its own
// savepoint so one failure does not discard the rest.
func (g *DemoGenerator) Generate(ctx context.Context, count int) (DemoSummary, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return DemoSummary{}, fmt.Errorf("error hashing demo password: %w", err)
	}

	var sum DemoSummary
	err = database.WithTx(ctx, g.db, func(tx *sql.Tx) error {
		for i := 0; i < count; i++ {
			u := g.Fake(i)
			savepoint := fmt.Sprintf("demo_user_%d", i)
			if _, err := tx.ExecContext(ctx, "SAVEPOINT "+savepoint); err != nil {
				return fmt.Errorf("error creating savepoint: %w", err)
			}
			if err := insertDemoUser(ctx, tx, u, string(hash)); err != nil {
				g.logger.Warn("Skipping demo user", zap.Int("index", i), zap.String("email", u.Email), zap.Error(err))
				if _, err := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+savepoint); err != nil {
					return fmt.Errorf("error rolling back savepoint: %w", err)
				}
				sum.Failed++
				continue
			}
			if _, err := tx.ExecContext(ctx, "RELEASE SAVEPOINT "+savepoint); err != nil {
				return fmt.Errorf("error releasing savepoint: %w", err)
			}
			if u.Startup != nil {
				sum.Founders++
			} else {
				sum.Investors++
			}
		}
		return nil
	})
	if err != nil {
		return DemoSummary{}, err
	}

	sum.UsersCreated = sum.Founders + sum.Investors
	sum.Message = "Demo user(s) generated successfully"
	g.logger.Info("Generated demo users",
		zap.Int("founders", sum.Founders), zap.Int("investors", sum.Investors), zap.Int("failed", sum.Failed))
	return sum, nil
}

func insertDemoUser(ctx context.Context, tx *sql.Tx, u DemoUser, passwordHash string) error {
	var id string
	if err := tx.QueryRowContext(ctx,
		`INSERT INTO users (email, password_hash) VALUES ($1, $2) RETURNING id`,
		u.Email, passwordHash,
	).Scan(&id); err != nil {
		return err
	}

	p := u.Profile
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO profiles (id, full_name, bio, avatar_url, linkedin_url, company_name, user_type, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, p.FullName, p.Bio, p.AvatarURL, p.LinkedInURL, p.CompanyName, p.UserType, p.Status,
	); err != nil {
		return err
	}

	if s := u.Startup; s != nil {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO startups (profile_id, sector, stage, description, website, location)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			id, s.Sector, s.Stage, s.Description, s.Website, s.Location,
		)
		return err
	}
	inv := u.Investor
	_, err := tx.ExecContext(ctx, `
		INSERT INTO investor_profiles (profile_id, investment_thesis, investment_stages, preferred_industries)
		VALUES ($1, $2, $3, $4)`,
		id, inv.InvestmentThesis, pq.Array(inv.InvestmentStages), pq.Array(inv.PreferredIndustries),
	)
	return err
}

// GenerateTestDataHandler handles POST /api/test/generate-users?count=
func GenerateTestDataHandler(gen *DemoGenerator, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count := 10
		if raw := r.URL.Query().Get("count"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > 150 {
				respond.ErrorMessage(w, http.StatusBadRequest, "invalid_input", "Count must be between 1 and 150")
				return
			}
			count = n
		}

		sum, err := gen.Generate(r.Context(), count)
		if err != nil {
			respond.Error(w, logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, sum)
	}
}
