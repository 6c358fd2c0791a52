//go:build unit

package commands_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	"buildquote/internal/domain/catalog"
	"buildquote/internal/domain/quote"
	"buildquote/internal/domain/rfq"
	"buildquote/internal/domain/supplier"
	"buildquote/internal/notify"
	"buildquote/internal/usecase/shared"

	"github.com/google/uuid"
)

// fakeState is an in-memory stand-in for the persistence layer. One instance
// backs the unit of work, every repository, and the command reads, so a test
// can seed rows up front and inspect every write afterwards.
type fakeState struct {
	materials  map[string]catalog.Material
	suppliers  map[uuid.UUID]supplier.Supplier
	contacts   map[uuid.UUID]catalog.Contact
	candidates []supplier.Supplier

	rfqs         map[uuid.UUID]*shared.RfqSnapshot
	rfqItems     map[uuid.UUID][]shared.RfqItemSnapshot
	recipients   map[uuid.UUID]map[uuid.UUID]*shared.RecipientSnapshot
	quotes       map[uuid.UUID]*shared.QuoteSnapshot
	instructions map[uuid.UUID]string
	outbox       []notify.Message

	createdRfqs    []*rfq.Rfq
	createdQuotes  []*quote.Quote
	replacedQuotes []uuid.UUID

	// failRfqCAS / failQuoteCAS simulate a lost compare-and-set race.
	failRfqCAS   bool
	failQuoteCAS bool
	// errOn forces a named operation to fail.
	errOn map[string]error

	withinCalls       int
	serializableCalls int
}

func newFakeState() *fakeState {
	return &fakeState{
		materials:    map[string]catalog.Material{},
		suppliers:    map[uuid.UUID]supplier.Supplier{},
		contacts:     map[uuid.UUID]catalog.Contact{},
		rfqs:         map[uuid.UUID]*shared.RfqSnapshot{},
		rfqItems:     map[uuid.UUID][]shared.RfqItemSnapshot{},
		recipients:   map[uuid.UUID]map[uuid.UUID]*shared.RecipientSnapshot{},
		quotes:       map[uuid.UUID]*shared.QuoteSnapshot{},
		instructions: map[uuid.UUID]string{},
		errOn:        map[string]error{},
	}
}

func (st *fakeState) addSupplier(s supplier.Supplier) {
	st.suppliers[s.ID] = s
	st.candidates = append(st.candidates, s)
}

func (st *fakeState) addRecipient(rfqID, supplierID uuid.UUID) *shared.RecipientSnapshot {
	rec := &shared.RecipientSnapshot{
		ID:         uuid.New(),
		RfqID:      rfqID,
		SupplierID: supplierID,
		Status:     rfq.RecipientNotified,
	}
	if st.recipients[rfqID] == nil {
		st.recipients[rfqID] = map[uuid.UUID]*shared.RecipientSnapshot{}
	}
	st.recipients[rfqID][supplierID] = rec
	return rec
}

// ---- shared.CommandReads ----

func (st *fakeState) MaterialsByKeys(_ context.Context, keys []string) (map[string]catalog.Material, error) {
	found := make(map[string]catalog.Material, len(keys))
	for _, k := range keys {
		if m, ok := st.materials[k]; ok {
			found[k] = m
		}
	}
	return found, nil
}

func (st *fakeState) SupplierByID(_ context.Context, id uuid.UUID) (*supplier.Supplier, error) {
	if s, ok := st.suppliers[id]; ok {
		return &s, nil
	}
	return nil, nil
}

func (st *fakeState) BuilderContact(_ context.Context, userID uuid.UUID) (*catalog.Contact, error) {
	if c, ok := st.contacts[userID]; ok {
		return &c, nil
	}
	return nil, nil
}

func (st *fakeState) ActiveSuppliersByCategories(_ context.Context, _ []string) ([]supplier.Supplier, error) {
	return st.candidates, nil
}

func (st *fakeState) RfqForUpdate(_ context.Context, id uuid.UUID) (*shared.RfqSnapshot, error) {
	if snap, ok := st.rfqs[id]; ok {
		copied := *snap
		return &copied, nil
	}
	return nil, nil
}

func (st *fakeState) RfqByID(ctx context.Context, id uuid.UUID) (*shared.RfqSnapshot, error) {
	return st.RfqForUpdate(ctx, id)
}

func (st *fakeState) RfqItems(_ context.Context, rfqID uuid.UUID) ([]shared.RfqItemSnapshot, error) {
	return st.rfqItems[rfqID], nil
}

func (st *fakeState) Recipient(_ context.Context, rfqID, supplierID uuid.UUID) (*shared.RecipientSnapshot, error) {
	if rec, ok := st.recipients[rfqID][supplierID]; ok {
		copied := *rec
		return &copied, nil
	}
	return nil, nil
}

func (st *fakeState) LiveQuote(_ context.Context, rfqID, supplierID uuid.UUID) (*shared.QuoteSnapshot, error) {
	for _, q := range st.quotes {
		if q.RfqID == rfqID && q.SupplierID == supplierID && q.Status == quote.StatusSubmitted {
			copied := *q
			return &copied, nil
		}
	}
	return nil, nil
}

func (st *fakeState) QuoteByID(_ context.Context, id uuid.UUID) (*shared.QuoteSnapshot, error) {
	if q, ok := st.quotes[id]; ok {
		copied := *q
		return &copied, nil
	}
	return nil, nil
}

// ---- repositories ----

type fakeRfqRepo struct{ st *fakeState }

func (r fakeRfqRepo) Create(_ context.Context, aggregate *rfq.Rfq) error {
	if err := r.st.errOn["rfq.Create"]; err != nil {
		return err
	}
	r.st.createdRfqs = append(r.st.createdRfqs, aggregate)
	r.st.rfqs[aggregate.ID()] = &shared.RfqSnapshot{
		ID:              aggregate.ID(),
		ProjectID:       aggregate.ProjectID(),
		RequesterID:     aggregate.RequesterID(),
		DeliveryAddress: aggregate.DeliveryAddress().String(),
		RequiredBy:      aggregate.RequiredBy(),
		Status:          aggregate.Status(),
		CreatedAt:       aggregate.CreatedAt(),
		ExpiresAt:       aggregate.ExpiresAt(),
	}
	items := make([]shared.RfqItemSnapshot, 0, len(aggregate.Items()))
	for _, it := range aggregate.Items() {
		items = append(items, shared.RfqItemSnapshot{
			ID:          it.ID(),
			MaterialKey: it.MaterialKey(),
			Quantity:    it.Quantity().Decimal(),
			Unit:        it.Unit(),
		})
	}
	r.st.rfqItems[aggregate.ID()] = items
	return nil
}

func (r fakeRfqRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to rfq.Status) (bool, error) {
	if err := r.st.errOn["rfq.UpdateStatus"]; err != nil {
		return false, err
	}
	if r.st.failRfqCAS {
		return false, nil
	}
	snap, ok := r.st.rfqs[id]
	if !ok || snap.Status != from {
		return false, nil
	}
	snap.Status = to
	return true, nil
}

func (r fakeRfqRepo) SetDeliveryInstructions(_ context.Context, id uuid.UUID, instructions string) error {
	r.st.instructions[id] = instructions
	return nil
}

type fakeQuoteRepo struct{ st *fakeState }

func snapshotOf(q *quote.Quote) *shared.QuoteSnapshot {
	return &shared.QuoteSnapshot{
		ID:           q.ID(),
		RfqID:        q.RfqID(),
		SupplierID:   q.SupplierID(),
		TotalUSD:     q.TotalUSD(),
		TotalZWG:     q.TotalZWG(),
		DeliveryDays: q.DeliveryDays(),
		ValidUntil:   q.ValidUntil(),
		Status:       q.Status(),
		SubmittedAt:  q.SubmittedAt(),
	}
}

func (r fakeQuoteRepo) Create(_ context.Context, q *quote.Quote) error {
	if err := r.st.errOn["quote.Create"]; err != nil {
		return err
	}
	r.st.createdQuotes = append(r.st.createdQuotes, q)
	r.st.quotes[q.ID()] = snapshotOf(q)
	return nil
}

func (r fakeQuoteRepo) Replace(_ context.Context, existingID uuid.UUID, q *quote.Quote) error {
	r.st.replacedQuotes = append(r.st.replacedQuotes, existingID)
	snap := snapshotOf(q)
	snap.ID = existingID
	r.st.quotes[existingID] = snap
	return nil
}

func (r fakeQuoteRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to quote.Status) (bool, error) {
	if r.st.failQuoteCAS {
		return false, nil
	}
	snap, ok := r.st.quotes[id]
	if !ok || snap.Status != from {
		return false, nil
	}
	snap.Status = to
	return true, nil
}

func (r fakeQuoteRepo) RejectSubmittedSiblings(_ context.Context, rfqID, acceptedQuoteID uuid.UUID) ([]shared.SiblingQuote, error) {
	var rejected []shared.SiblingQuote
	for _, q := range r.st.quotes {
		if q.RfqID == rfqID && q.ID != acceptedQuoteID && q.Status == quote.StatusSubmitted {
			q.Status = quote.StatusRejected
			rejected = append(rejected, shared.SiblingQuote{ID: q.ID, SupplierID: q.SupplierID})
		}
	}
	return rejected, nil
}

type fakeRecipientRepo struct{ st *fakeState }

func (r fakeRecipientRepo) CreateBatch(_ context.Context, rfqID uuid.UUID, supplierIDs []uuid.UUID) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(supplierIDs))
	for _, sid := range supplierIDs {
		ids = append(ids, r.st.addRecipient(rfqID, sid).ID)
	}
	return ids, nil
}

func (r fakeRecipientRepo) UpdateStatus(_ context.Context, rfqID, supplierID uuid.UUID, status rfq.RecipientStatus) error {
	if rec, ok := r.st.recipients[rfqID][supplierID]; ok {
		rec.Status = status
	}
	return nil
}

func (r fakeRecipientRepo) MarkViewed(_ context.Context, rfqID, supplierID uuid.UUID, at time.Time) error {
	if rec, ok := r.st.recipients[rfqID][supplierID]; ok {
		if rec.FirstViewedAt == nil {
			rec.FirstViewedAt = &at
		}
		if rec.Status == rfq.RecipientNotified {
			rec.Status = rfq.RecipientViewed
		}
	}
	return nil
}

type fakeOutboxRepo struct{ st *fakeState }

func (r fakeOutboxRepo) Enqueue(_ context.Context, msg notify.Message) error {
	if err := r.st.errOn["outbox.Enqueue"]; err != nil {
		return err
	}
	r.st.outbox = append(r.st.outbox, msg)
	return nil
}

// ---- unit of work ----

type fakeTx struct{ st *fakeState }

func (t fakeTx) Rfqs() shared.RfqRepository             { return fakeRfqRepo{t.st} }
func (t fakeTx) Quotes() shared.QuoteRepository         { return fakeQuoteRepo{t.st} }
func (t fakeTx) Recipients() shared.RecipientRepository { return fakeRecipientRepo{t.st} }
func (t fakeTx) Outbox() shared.OutboxRepository        { return fakeOutboxRepo{t.st} }
func (t fakeTx) Reads() shared.CommandReads             { return t.st }

type fakeUoW struct{ st *fakeState }

func (u fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.st.withinCalls++
	return u.run(ctx, fn)
}

func (u fakeUoW) WithinSerializable(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.st.serializableCalls++
	return u.run(ctx, fn)
}

// run mirrors the real unit of work: writes made by fn are discarded when
// fn returns an error, and kept only on the nil (commit) path.
func (u fakeUoW) run(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	saved := u.st.checkpoint()
	if err := fn(ctx, fakeTx{u.st}); err != nil {
		u.st.restore(saved)
		return err
	}
	return nil
}

func (u fakeUoW) Reads() shared.CommandReads { return u.st }

// stateCheckpoint is a deep copy of everything a transaction can write.
// Seed data (materials, suppliers, contacts, candidates) is read-only and
// test bookkeeping counters live outside the transaction, so neither is
// captured.
type stateCheckpoint struct {
	rfqs         map[uuid.UUID]*shared.RfqSnapshot
	rfqItems     map[uuid.UUID][]shared.RfqItemSnapshot
	recipients   map[uuid.UUID]map[uuid.UUID]*shared.RecipientSnapshot
	quotes       map[uuid.UUID]*shared.QuoteSnapshot
	instructions map[uuid.UUID]string
	outbox       []notify.Message

	createdRfqs    []*rfq.Rfq
	createdQuotes  []*quote.Quote
	replacedQuotes []uuid.UUID
}

func (st *fakeState) checkpoint() stateCheckpoint {
	cp := stateCheckpoint{
		rfqs:         make(map[uuid.UUID]*shared.RfqSnapshot, len(st.rfqs)),
		rfqItems:     make(map[uuid.UUID][]shared.RfqItemSnapshot, len(st.rfqItems)),
		recipients:   make(map[uuid.UUID]map[uuid.UUID]*shared.RecipientSnapshot, len(st.recipients)),
		quotes:       make(map[uuid.UUID]*shared.QuoteSnapshot, len(st.quotes)),
		instructions: make(map[uuid.UUID]string, len(st.instructions)),

		outbox:         append([]notify.Message(nil), st.outbox...),
		createdRfqs:    append([]*rfq.Rfq(nil), st.createdRfqs...),
		createdQuotes:  append([]*quote.Quote(nil), st.createdQuotes...),
		replacedQuotes: append([]uuid.UUID(nil), st.replacedQuotes...),
	}
	for id, snap := range st.rfqs {
		copied := *snap
		cp.rfqs[id] = &copied
	}
	for id, items := range st.rfqItems {
		cp.rfqItems[id] = append([]shared.RfqItemSnapshot(nil), items...)
	}
	for rfqID, bySupplier := range st.recipients {
		inner := make(map[uuid.UUID]*shared.RecipientSnapshot, len(bySupplier))
		for supplierID, rec := range bySupplier {
			copied := *rec
			if rec.FirstViewedAt != nil {
				at := *rec.FirstViewedAt
				copied.FirstViewedAt = &at
			}
			inner[supplierID] = &copied
		}
		cp.recipients[rfqID] = inner
	}
	for id, snap := range st.quotes {
		copied := *snap
		cp.quotes[id] = &copied
	}
	for id, v := range st.instructions {
		cp.instructions[id] = v
	}
	return cp
}

func (st *fakeState) restore(cp stateCheckpoint) {
	st.rfqs = cp.rfqs
	st.rfqItems = cp.rfqItems
	st.recipients = cp.recipients
	st.quotes = cp.quotes
	st.instructions = cp.instructions
	st.outbox = cp.outbox
	st.createdRfqs = cp.createdRfqs
	st.createdQuotes = cp.createdQuotes
	st.replacedQuotes = cp.replacedQuotes
}

type fakeNudger struct{ nudges int }

func (n *fakeNudger) Nudge() { n.nudges++ }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func messagesByEvent(msgs []notify.Message, event notify.EventType) []notify.Message {
	var out []notify.Message
	for _, m := range msgs {
		if m.Event == event {
			out = append(out, m)
		}
	}
	return out
}
