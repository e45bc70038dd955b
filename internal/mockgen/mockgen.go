// Package mockgen produces the randomized mock payloads served by the mock
// service. All randomness flows through a single injectable source so tests
// can pin the sequence.
package mockgen

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
)

const (
	emailDomain    = "@omantel.om"
	phonePrefix    = "+9689"
	billingMonth   = "August 2025"
	genericMessage = "Generic Omantel Mock Response"
)

var (
	firstNames = []string{"Fatma", "Ali", "Salim", "Aisha", "Huda", "Mohammed"}
	surnames   = []string{"Al-Maskari", "Al-Busaidi", "Al-Harthy", "Al-Lawati"}
)

// SimInfo is the payload for GET /api/sim-info.
type SimInfo struct {
	SimID       string `json:"simId"`
	Status      string `json:"status"`
	ActivatedAt string `json:"activatedAt"`
}

// User is the registered-user record embedded in RegisterResponse.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// RegisterResponse is the payload for POST /api/register.
type RegisterResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

// Billing is the payload for GET /api/billing.
type Billing struct {
	AccountNumber string `json:"accountNumber"`
	BillingMonth  string `json:"billingMonth"`
	AmountDue     string `json:"amountDue"`
	DueDate       string `json:"dueDate"`
}

// RegistrationMock is the classified mock for "register user" descriptions.
type RegistrationMock struct {
	UserID       string `json:"userId"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	RegisteredAt string `json:"registeredAt"`
}

// SimActivationMock is the classified mock for "sim activation" descriptions.
type SimActivationMock struct {
	SimID       string `json:"simId"`
	Status      string `json:"status"`
	ActivatedAt string `json:"activatedAt"`
}

// BillingMock is the classified mock for "billing info" descriptions.
type BillingMock struct {
	AccountNumber string `json:"accountNumber"`
	AmountDue     string `json:"amountDue"`
	DueDate       string `json:"dueDate"`
	BillingMonth  string `json:"billingMonth"`
}

// ComplaintMock is the classified mock for "complaint" or "issue" descriptions.
type ComplaintMock struct {
	ComplaintID string `json:"complaintId"`
	Status      string `json:"status"`
	Message     string `json:"message"`
}

// GenericMock is the fallback mock and the GET /api/generate-mock payload.
type GenericMock struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Generator builds randomized mock payloads. Safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

// New returns a Generator seeded from the wall clock.
func New() *Generator {
	return NewWithSource(rand.New(rand.NewSource(time.Now().UnixNano())), time.Now)
}

// NewWithSource returns a Generator with an explicit random source and clock.
func NewWithSource(rnd *rand.Rand, now func() time.Time) *Generator {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	return &Generator{rnd: rnd, now: now}
}

// SimInfo builds a fresh SIM info payload.
func (g *Generator) SimInfo() SimInfo {
	return SimInfo{
		SimID:       "SIM-" + g.digits(100000, 900000),
		Status:      "Activated",
		ActivatedAt: g.timestamp(),
	}
}

// Register builds a registration payload. Empty fields are synthesized;
// a synthesized email is derived from the name actually used.
func (g *Generator) Register(name, email, phone string) RegisterResponse {
	if name == "" {
		name = g.fullName()
	}
	if email == "" {
		email = deriveEmail(name)
	}
	if phone == "" {
		phone = g.phone()
	}
	return RegisterResponse{
		Message: "User registered successfully",
		User: User{
			ID:    "OMT" + g.shortID(),
			Name:  name,
			Email: email,
			Phone: phone,
		},
	}
}

// Billing builds a billing payload. AmountDue is a decimal in [5, 25)
// formatted to three places with the currency suffix.
func (g *Generator) Billing() Billing {
	return Billing{
		AccountNumber: "OM-BILL-" + g.shortID(),
		BillingMonth:  billingMonth,
		AmountDue:     g.amount(5, 20),
		DueDate:       g.dueDate(),
	}
}

// Generic builds the fallback mock payload.
func (g *Generator) Generic() GenericMock {
	return GenericMock{
		Message:   genericMessage,
		Timestamp: g.timestamp(),
	}
}

// Generate classifies a free-text description and builds the matching mock.
// Matching is case-insensitive substring search over an ordered rule list;
// the first match wins and unmatched input falls through to Generic.
func (g *Generator) Generate(description string) any {
	desc := strings.ToLower(description)
	for _, r := range g.rules() {
		if r.match(desc) {
			return r.build()
		}
	}
	return g.Generic()
}

type rule struct {
	match func(desc string) bool
	build func() any
}

func (g *Generator) rules() []rule {
	return []rule{
		{
			match: matchAll("register", "user"),
			build: func() any {
				name := g.fullName()
				return RegistrationMock{
					UserID:       "omantel" + g.shortID(),
					Name:         name,
					Email:        deriveEmail(name),
					Phone:        g.phone(),
					RegisteredAt: g.timestamp(),
				}
			},
		},
		{
			match: matchAll("sim", "activation"),
			build: func() any {
				return SimActivationMock{
					SimID:       "SIM" + g.shortID(),
					Status:      "Activated",
					ActivatedAt: g.timestamp(),
				}
			},
		},
		{
			match: matchAll("billing", "info"),
			build: func() any {
				return BillingMock{
					AccountNumber: "ACC-" + g.shortID(),
					AmountDue:     g.amount(8, 5),
					DueDate:       g.dueDate(),
					BillingMonth:  billingMonth,
				}
			},
		},
		{
			match: matchAny("complaint", "issue"),
			build: func() any {
				return ComplaintMock{
					ComplaintID: "CMP" + g.shortID(),
					Status:      "Open",
					Message:     "Thank you. Your issue has been logged. We'll get back to you.",
				}
			},
		},
	}
}

func matchAll(words ...string) func(string) bool {
	return func(desc string) bool {
		for _, w := range words {
			if !strings.Contains(desc, w) {
				return false
			}
		}
		return true
	}
}

func matchAny(words ...string) func(string) bool {
	return func(desc string) bool {
		for _, w := range words {
			if strings.Contains(desc, w) {
				return true
			}
		}
		return false
	}
}

func deriveEmail(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", ".") + emailDomain
}

func (g *Generator) fullName() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return firstNames[g.rnd.Intn(len(firstNames))] + " " + surnames[g.rnd.Intn(len(surnames))]
}

func (g *Generator) phone() string {
	return phonePrefix + g.digits(1000000, 9000000)
}

// shortID renders a 4-digit identifier suffix.
func (g *Generator) shortID() string {
	return g.digits(1000, 9000)
}

func (g *Generator) digits(base, span int) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fmt.Sprintf("%d", base+g.rnd.Intn(span))
}

func (g *Generator) amount(base, span float64) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fmt.Sprintf("%.3f OMR", base+g.rnd.Float64()*span)
}

func (g *Generator) dueDate() string {
	g.mu.Lock()
	days := 1 + g.rnd.Intn(14)
	g.mu.Unlock()
	return g.now().AddDate(0, 0, days).Format("2006-01-02")
}

func (g *Generator) timestamp() string {
	return g.now().UTC().Format(time.RFC3339)
}
