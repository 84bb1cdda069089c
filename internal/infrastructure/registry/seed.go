package registry

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"service-admission/internal/domain/model"
	"service-admission/internal/infrastructure/yaml"
)

// Seed lists the credentials a registry answers "valid" for.
type Seed struct {
	ShareholderTickets []string      `yaml:"shareholder_tickets"`
	PremiumMembers     []string      `yaml:"premium_members"`
	Vouchers           []VoucherSeed `yaml:"vouchers"`
}

type VoucherSeed struct {
	EventID    string `yaml:"event_id"`
	SequenceID int    `yaml:"sequence_id"`
	IssueDate  string `yaml:"issue_date"`
}

// PublishedTickets are the shareholder tickets issued for the current season.
var PublishedTickets = []string{
	"4A8E3117-57FA-4B03-B823-934933319D94",
	"BF7B5929-46F9-484D-A5D2-CAE6E23E1FE9",
	"7648285F-A001-4745-A7D3-53A880BF4320",
	"DAA9B485-19D5-4BCA-A375-9889CFE5E33D",
	"DB5F1BE9-13FF-4877-9B55-D41580BD12CC",
	"5022F21E-75C1-44AA-93D7-5EC48F5213E5",
	"7A696A9D-3294-4159-90BB-2DCE93FA5F1C",
	"5B491058-9893-4039-A158-94140067281E",
	"2BD3230A-EEE2-4DB5-B114-2BB126A47897",
	"1CD539FA-D21F-4369-90A7-8EF5F808F922",
}

// DefaultSeed contains only the published shareholder tickets.
func DefaultSeed() Seed {
	return Seed{ShareholderTickets: append([]string(nil), PublishedTickets...)}
}

// LoadSeed reads a YAML seed file.
func LoadSeed(path string) (Seed, error) {
	var s Seed
	if err := yaml.LoadFile(path, &s); err != nil {
		return Seed{}, fmt.Errorf("load registry seed: %w", err)
	}
	return s, nil
}

// Merge appends other's entries to s.
func (s Seed) Merge(other Seed) Seed {
	s.ShareholderTickets = append(append([]string(nil), s.ShareholderTickets...), other.ShareholderTickets...)
	s.PremiumMembers = append(append([]string(nil), s.PremiumMembers...), other.PremiumMembers...)
	s.Vouchers = append(append([]VoucherSeed(nil), s.Vouchers...), other.Vouchers...)
	return s
}

type parsedSeed struct {
	tickets  []string
	members  []string
	vouchers []string
}

func (s Seed) parse() (parsedSeed, error) {
	var out parsedSeed
	for _, raw := range s.ShareholderTickets {
		id, err := uuid.Parse(raw)
		if err != nil {
			return parsedSeed{}, fmt.Errorf("shareholder ticket %q: %w", raw, err)
		}
		out.tickets = append(out.tickets, id.String())
	}
	for _, raw := range s.PremiumMembers {
		id, err := uuid.Parse(raw)
		if err != nil {
			return parsedSeed{}, fmt.Errorf("premium member %q: %w", raw, err)
		}
		out.members = append(out.members, id.String())
	}
	for _, v := range s.Vouchers {
		event, err := uuid.Parse(v.EventID)
		if err != nil {
			return parsedSeed{}, fmt.Errorf("voucher event %q: %w", v.EventID, err)
		}
		issued, err := time.Parse(time.DateOnly, v.IssueDate)
		if err != nil {
			return parsedSeed{}, fmt.Errorf("voucher issue date %q: %w", v.IssueDate, err)
		}
		out.vouchers = append(out.vouchers, VoucherKey(model.DiscountVoucher{EventID: event, SequenceID: v.SequenceID, IssueDate: issued}))
	}
	return out, nil
}

// VoucherKey identifies a voucher by event, sequence and issue date.
func VoucherKey(v model.DiscountVoucher) string {
	return fmt.Sprintf("%s:%d:%s", v.EventID, v.SequenceID, v.IssueDate.Format(time.DateOnly))
}
