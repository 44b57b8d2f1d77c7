package checkout

import (
	"context"
	"time"

	"velora_back_end/internal/gateway"
	"velora_back_end/internal/models"
)

type fakeUsers struct {
	getByEmailFunc func(ctx context.Context, email string) (*models.User, error)
	getAddressFunc func(ctx context.Context, addressID string) (*models.Address, error)
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getByEmailFunc != nil {
		return f.getByEmailFunc(ctx, email)
	}
	return &models.User{ID: "user-1", Email: email, Name: "Ana"}, nil
}

func (f *fakeUsers) GetAddress(ctx context.Context, addressID string) (*models.Address, error) {
	if f.getAddressFunc != nil {
		return f.getAddressFunc(ctx, addressID)
	}
	return &models.Address{ID: addressID, UserID: "user-1", Street: "12 rue Haute", City: "Bruxelles"}, nil
}

type fakeCheckouts struct {
	inserted []models.Checkout
	updated  []models.Checkout

	findByIDFunc      func(ctx context.Context, id, email string) (*models.Checkout, error)
	findByPaymentFunc func(ctx context.Context, source models.PaymentSource, paymentID string) (*models.Checkout, error)
	insertFunc        func(ctx context.Context, ck *models.Checkout) error
	updateFunc        func(ctx context.Context, ck *models.Checkout) error

	deletedEmails []string
	deletedIDs    []string
}

func (f *fakeCheckouts) Insert(ctx context.Context, ck *models.Checkout) error {
	if f.insertFunc != nil {
		if err := f.insertFunc(ctx, ck); err != nil {
			return err
		}
	}
	f.inserted = append(f.inserted, *ck)
	return nil
}

func (f *fakeCheckouts) FindByIDAndEmail(ctx context.Context, id, email string) (*models.Checkout, error) {
	if f.findByIDFunc != nil {
		return f.findByIDFunc(ctx, id, email)
	}
	return nil, nil
}

func (f *fakeCheckouts) FindByPayment(ctx context.Context, source models.PaymentSource, paymentID string) (*models.Checkout, error) {
	if f.findByPaymentFunc != nil {
		return f.findByPaymentFunc(ctx, source, paymentID)
	}
	return nil, nil
}

func (f *fakeCheckouts) Update(ctx context.Context, ck *models.Checkout) error {
	if f.updateFunc != nil {
		if err := f.updateFunc(ctx, ck); err != nil {
			return err
		}
	}
	f.updated = append(f.updated, *ck)
	return nil
}

func (f *fakeCheckouts) DeleteByEmail(ctx context.Context, email string) (int64, error) {
	f.deletedEmails = append(f.deletedEmails, email)
	return 1, nil
}

func (f *fakeCheckouts) DeleteByID(ctx context.Context, id string) error {
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

type fakeOrders struct {
	inserted   []models.Order
	insertFunc func(ctx context.Context, o *models.Order) error
}

func (f *fakeOrders) Insert(ctx context.Context, o *models.Order) error {
	if f.insertFunc != nil {
		if err := f.insertFunc(ctx, o); err != nil {
			return err
		}
	}
	f.inserted = append(f.inserted, *o)
	return nil
}

type fakeRates struct {
	calls       int
	getRateFunc func(ctx context.Context, currency string) (*models.ExchangeRate, error)
}

func (f *fakeRates) GetRate(ctx context.Context, currency string) (*models.ExchangeRate, error) {
	f.calls++
	if f.getRateFunc != nil {
		return f.getRateFunc(ctx, currency)
	}
	return &models.ExchangeRate{Currency: "BDT", Rate: 121.5, UpdatedAt: time.Unix(0, 0)}, nil
}

type fakeCart struct {
	calls       int
	getCartFunc func(ctx context.Context, email string, allowRecalc, persist bool) (*models.Cart, error)
}

func (f *fakeCart) GetCart(ctx context.Context, email string, allowRecalc, persist bool) (*models.Cart, error) {
	f.calls++
	if f.getCartFunc != nil {
		return f.getCartFunc(ctx, email, allowRecalc, persist)
	}
	return fixtureCart(email), nil
}

type fakeGateway struct {
	calls         []gateway.AuthorizeParams
	authorizeFunc func(ctx context.Context, p gateway.AuthorizeParams) (*gateway.Authorization, error)
}

func (f *fakeGateway) Authorize(ctx context.Context, p gateway.AuthorizeParams) (*gateway.Authorization, error) {
	f.calls = append(f.calls, p)
	if f.authorizeFunc != nil {
		return f.authorizeFunc(ctx, p)
	}
	return &gateway.Authorization{ChargeID: "pi_123", TransactionID: "ch_456"}, nil
}

type fakeNotifier struct {
	sent chan models.Order
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{sent: make(chan models.Order, 1)}
}

func (f *fakeNotifier) SendOrderConfirmation(order models.Order) error {
	f.sent <- order
	return nil
}

// fixtureCart : sous-total 100 USD, une ligne à 50 USD avec 10% de douane
func fixtureCart(email string) *models.Cart {
	return &models.Cart{
		UserEmail: email,
		Items: []models.CartItem{
			{
				ProductID:       "a1b2c3",
				Name:            "Lampe en laiton",
				Quantity:        1,
				UnitPrice:       50,
				AggregatedPrice: models.USD(50),
				WeightKg:        2,
				Tariff:          &models.Tariff{ID: "trf-bd-7", Name: "Luminaires", Rate: 10},
				Category:        &models.Category{ID: "cat-3", Name: "Maison"},
			},
			{
				ProductID:       "d4e5f6",
				Name:            "Plaid en lin",
				Quantity:        2,
				UnitPrice:       25,
				AggregatedPrice: models.USD(50),
				WeightKg:        0.5,
				Category:        &models.Category{ID: "cat-9", Name: "Textile"},
			},
		},
		SubTotalPrice: models.USD(100),
	}
}

func newTestService(users *fakeUsers, checkouts *fakeCheckouts, orders *fakeOrders,
	rates *fakeRates, cart *fakeCart, gw *fakeGateway, notifier *fakeNotifier) *Service {
	s := NewService(users, checkouts, orders, rates, cart, gw, notifier)
	s.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	s.newPaymentID = func() string { return "tok-0001" }
	return s
}
