// Package session holds the per-visitor converter form: the selected
// currencies, the amount text, the directory and conversion request states and
// the last successful converted value.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/SscSPs/currency_converter_app/internal/core/domain"
	portssvc "github.com/SscSPs/currency_converter_app/internal/core/ports/services"
	"github.com/SscSPs/currency_converter_app/internal/utils"
	"github.com/shopspring/decimal"
)

// DefaultAmount is the amount text of a fresh form.
const DefaultAmount = "1"

// Banner texts shown when a request fails.
const (
	DirectoryErrorMessage  = "Failed to load currencies. Please check your API key and try again."
	ConversionErrorMessage = "Failed to convert currency. Please try again."
)

// Phase is the state of one remote request slot.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// View is an immutable snapshot of a form, ready to be rendered.
type View struct {
	From       string
	To         string
	Amount     string
	Currencies []domain.Currency

	DirectoryPhase  Phase
	ConversionPhase Phase

	// Converted is the last successful value, nil until the first success.
	Converted *decimal.Decimal
	// Display is Converted formatted for humans, or a placeholder.
	Display string

	DirectoryError  string
	ConversionError string
}

// Loading reports whether any request is outstanding.
func (v View) Loading() bool {
	return v.DirectoryPhase == PhaseLoading || v.ConversionPhase == PhaseLoading
}

// PickersDisabled reports whether the currency pickers should be disabled.
func (v View) PickersDisabled() bool {
	return v.DirectoryPhase == PhaseLoading || len(v.Currencies) == 0
}

// Form is the converter state of one session. All methods are safe for
// concurrent use. Remote requests run on their own goroutines; methods never
// wait for them.
type Form struct {
	mu     sync.Mutex
	svc    portssvc.ConverterSvcFacade
	logger *slog.Logger

	from   string
	to     string
	amount string

	currencies     []domain.Currency
	directoryPhase Phase

	// current is the identity whose result may update the form.
	current         domain.ConversionKey
	conversionPhase Phase
	converted       *decimal.Decimal

	inflight sync.WaitGroup
}

// NewForm creates a form with no currencies selected and the default amount.
func NewForm(svc portssvc.ConverterSvcFacade, logger *slog.Logger) *Form {
	if logger == nil {
		logger = slog.Default()
	}
	return &Form{
		svc:    svc,
		logger: logger,
		amount: DefaultAmount,
	}
}

// LoadDirectory starts the directory fetch. Only the first call has any
// effect; the directory is fetched once per form.
func (f *Form) LoadDirectory(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.directoryPhase != PhaseIdle {
		return
	}
	f.directoryPhase = PhaseLoading

	ctx = context.WithoutCancel(ctx)
	f.inflight.Add(1)
	go func() {
		defer f.inflight.Done()
		currencies, err := f.svc.ListCurrencies(ctx)

		f.mu.Lock()
		defer f.mu.Unlock()
		if err != nil {
			f.logger.Warn("Currency directory fetch failed", slog.String("error", err.Error()))
			f.currencies = nil
			f.directoryPhase = PhaseFailed
			return
		}
		f.currencies = currencies
		f.directoryPhase = PhaseLoaded
	}()
}

// SetAmount stores text in the amount field if it is well-formed decimal text
// and reports whether it was accepted. Rejected text leaves the field unchanged.
func (f *Form) SetAmount(ctx context.Context, text string) bool {
	if !domain.IsValidAmountInput(text) {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.amount = text
	f.refreshLocked(ctx)
	return true
}

// SelectFrom sets the source currency.
func (f *Form) SelectFrom(ctx context.Context, shortCode string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.from = shortCode
	f.refreshLocked(ctx)
}

// SelectTo sets the target currency.
func (f *Form) SelectTo(ctx context.Context, shortCode string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.to = shortCode
	f.refreshLocked(ctx)
}

// Update applies a complete set of inputs at once, as submitted by a form post.
// The amount is only applied if it is well-formed; the return value reports
// whether it was.
func (f *Form) Update(ctx context.Context, from, to, amount string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.from = from
	f.to = to
	accepted := domain.IsValidAmountInput(amount)
	if accepted {
		f.amount = amount
	}
	f.refreshLocked(ctx)
	return accepted
}

// refreshLocked brings the conversion slot in line with the current inputs.
// f.mu must be held.
func (f *Form) refreshLocked(ctx context.Context) {
	req := domain.ConversionRequest{From: f.from, To: f.to, Amount: f.amount}
	key := req.Key()

	if !req.Enabled() {
		// Disabled: no request and no error; the last value stays visible.
		f.current = key
		f.conversionPhase = PhaseIdle
		return
	}

	if key == f.current && (f.conversionPhase == PhaseLoading || f.conversionPhase == PhaseLoaded) {
		// Same identity already requested or resolved. A failed identity is
		// requested again only when the user submits it again.
		return
	}

	f.current = key
	f.conversionPhase = PhaseLoading

	ctx = context.WithoutCancel(ctx)
	f.inflight.Add(1)
	go func() {
		defer f.inflight.Done()
		value, err := f.svc.Convert(ctx, req)
		f.applyConversion(key, value, err)
	}()
}

// applyConversion records the outcome of the request issued for key, unless the
// inputs have moved on since.
func (f *Form) applyConversion(key domain.ConversionKey, value decimal.Decimal, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if key != f.current {
		f.logger.Debug("Discarding superseded conversion result",
			slog.String("from", key.From),
			slog.String("to", key.To),
			slog.String("amount", key.Amount),
		)
		return
	}

	if err != nil {
		f.logger.Warn("Conversion failed", slog.String("error", err.Error()))
		f.conversionPhase = PhaseFailed
		return
	}
	f.converted = &value
	f.conversionPhase = PhaseLoaded
}

// Wait blocks until every request started so far has completed and been applied.
func (f *Form) Wait() {
	f.inflight.Wait()
}

// View returns a snapshot of the form.
func (f *Form) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()

	v := View{
		From:            f.from,
		To:              f.to,
		Amount:          f.amount,
		Currencies:      f.currencies,
		DirectoryPhase:  f.directoryPhase,
		ConversionPhase: f.conversionPhase,
		Display:         utils.FormatConvertedAmount(f.converted),
	}
	if v.Currencies == nil {
		v.Currencies = []domain.Currency{}
	}
	if f.converted != nil {
		c := *f.converted
		v.Converted = &c
	}
	if f.directoryPhase == PhaseFailed {
		v.DirectoryError = DirectoryErrorMessage
	}
	if f.conversionPhase == PhaseFailed {
		v.ConversionError = ConversionErrorMessage
	}
	return v
}
