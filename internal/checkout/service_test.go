package checkout

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"velora_back_end/internal/gateway"
	"velora_back_end/internal/models"
	"velora_back_end/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var testUser = models.User{ID: "user-1", Email: "ana@example.com", Name: "Ana"}

// storedCheckout construit un checkout dont le panier correspond exactement
// à un recalcul frais du panier de test
func storedCheckout(t *testing.T, s *Service) *models.Checkout {
	t.Helper()
	priced, err := s.CalculatePrice(context.Background(), testUser.Email, true, false)
	require.NoError(t, err)

	return &models.Checkout{
		ID:             primitive.NewObjectID(),
		OverallStatus:  models.StatusReceived,
		UserEmail:      testUser.Email,
		ShippingMethod: "standard",
		Cart:           *priced,
		PaymentInfo:    []models.PaymentInfo{},
	}
}

func TestCreateCheckout_MissingInput(t *testing.T) {
	checkouts := &fakeCheckouts{}
	s := newTestService(&fakeUsers{}, checkouts, &fakeOrders{}, &fakeRates{}, &fakeCart{}, &fakeGateway{}, newFakeNotifier())

	res := s.CreateCheckout(context.Background(), "", "standard", testUser)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.False(t, res.Success)

	res = s.CreateCheckout(context.Background(), "addr-1", "  ", testUser)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	// Aucune écriture en base
	assert.Empty(t, checkouts.inserted)
	assert.Empty(t, checkouts.deletedEmails)
}

func TestCreateCheckout_AddressNotOnProfile(t *testing.T) {
	users := &fakeUsers{
		getAddressFunc: func(ctx context.Context, addressID string) (*models.Address, error) {
			// Adresse existante mais appartenant à un autre utilisateur
			return &models.Address{ID: addressID, UserID: "user-999"}, nil
		},
	}
	checkouts := &fakeCheckouts{}
	s := newTestService(users, checkouts, &fakeOrders{}, &fakeRates{}, &fakeCart{}, &fakeGateway{}, newFakeNotifier())

	res := s.CreateCheckout(context.Background(), "addr-1", "standard", testUser)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Empty(t, checkouts.inserted)
	assert.Empty(t, checkouts.deletedEmails)
}

func TestCreateCheckout_UnknownUser(t *testing.T) {
	users := &fakeUsers{
		getByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return nil, repository.ErrNotFound
		},
	}
	s := newTestService(users, &fakeCheckouts{}, &fakeOrders{}, &fakeRates{}, &fakeCart{}, &fakeGateway{}, newFakeNotifier())

	res := s.CreateCheckout(context.Background(), "addr-1", "standard", testUser)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestCreateCheckout_UserLookupFailure(t *testing.T) {
	users := &fakeUsers{
		getByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return nil, errors.New("timeout scylla")
		},
	}
	checkouts := &fakeCheckouts{}
	s := newTestService(users, checkouts, &fakeOrders{}, &fakeRates{}, &fakeCart{}, &fakeGateway{}, newFakeNotifier())

	// Panne du store utilisateurs : erreur interne, pas un refus d'accès
	res := s.CreateCheckout(context.Background(), "addr-1", "standard", testUser)
	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.Empty(t, checkouts.inserted)
	assert.Empty(t, checkouts.deletedEmails)
}

func TestCreateCheckout_PurgesPriorCheckouts(t *testing.T) {
	checkouts := &fakeCheckouts{}
	s := newTestService(&fakeUsers{}, checkouts, &fakeOrders{}, &fakeRates{}, &fakeCart{}, &fakeGateway{}, newFakeNotifier())

	res := s.CreateCheckout(context.Background(), "addr-1", "standard", testUser)
	require.Equal(t, http.StatusCreated, res.Code)
	require.True(t, res.Success)

	// Purge avant insertion : au plus un checkout actif par utilisateur
	assert.Equal(t, []string{testUser.Email}, checkouts.deletedEmails)
	require.Len(t, checkouts.inserted, 1)

	ck := checkouts.inserted[0]
	assert.Equal(t, models.StatusReceived, ck.OverallStatus)
	assert.Equal(t, testUser.Email, ck.UserEmail)
	assert.Equal(t, "standard", ck.ShippingMethod)
	assert.Equal(t, testUser.Email, ck.Audit.CreatedBy)
	assert.Equal(t, 125.00, ck.Cart.TotalPrice.Amount)
	assert.Empty(t, ck.PaymentInfo)
}

func TestCreateCheckout_InsertFailure(t *testing.T) {
	checkouts := &fakeCheckouts{
		insertFunc: func(ctx context.Context, ck *models.Checkout) error {
			return errors.New("écriture refusée")
		},
	}
	s := newTestService(&fakeUsers{}, checkouts, &fakeOrders{}, &fakeRates{}, &fakeCart{}, &fakeGateway{}, newFakeNotifier())

	res := s.CreateCheckout(context.Background(), "addr-1", "standard", testUser)
	assert.Equal(t, http.StatusInternalServerError, res.Code)
}

func TestCreatePaymentToken_MissingInput(t *testing.T) {
	s := newTestService(&fakeUsers{}, &fakeCheckouts{}, &fakeOrders{}, &fakeRates{}, &fakeCart{}, &fakeGateway{}, newFakeNotifier())

	res := s.CreatePaymentToken(context.Background(), "", models.SourceBkash, testUser)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = s.CreatePaymentToken(context.Background(), "ck-1", "", testUser)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestCreatePaymentToken_CheckoutNotFound(t *testing.T) {
	checkouts := &fakeCheckouts{
		findByIDFunc: func(ctx context.Context, id, email string) (*models.Checkout, error) {
			return nil, repository.ErrNotFound
		},
	}
	s := newTestService(&fakeUsers{}, checkouts, &fakeOrders{}, &fakeRates{}, &fakeCart{}, &fakeGateway{}, newFakeNotifier())

	res := s.CreatePaymentToken(context.Background(), "ck-1", models.SourceBkash, testUser)
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestCreatePaymentToken_Bkash(t *testing.T) {
	cart := &fakeCart{}
	rates := &fakeRates{}
	checkouts := &fakeCheckouts{}
	s := newTestService(&fakeUsers{}, checkouts, &fakeOrders{}, rates, cart, &fakeGateway{}, newFakeNotifier())

	ck := storedCheckout(t, s)
	checkouts.findByIDFunc = func(ctx context.Context, id, email string) (*models.Checkout, error) {
		return ck, nil
	}

	res := s.CreatePaymentToken(context.Background(), ck.ID.Hex(), models.SourceBkash, testUser)
	require.Equal(t, http.StatusOK, res.Code)
	require.Len(t, checkouts.updated, 1)

	info := checkouts.updated[0].PaymentInfo
	require.Len(t, info, 1)
	assert.Equal(t, models.SourceBkash, info[0].Source)
	assert.Equal(t, models.PaymentPending, info[0].Type)
	assert.Equal(t, "tok-0001", info[0].PaymentID)
	assert.Equal(t, 125.00, info[0].AmountInUSD)
	require.NotNil(t, info[0].ExchangeRate)
	assert.Equal(t, 121.5, *info[0].ExchangeRate)
	require.NotNil(t, info[0].AmountInPaymentCurrency)
	// 125 × 121.5 = 15187.50 BDT
	assert.Equal(t, 15187.50, info[0].AmountInPaymentCurrency.Amount)
	assert.Equal(t, "BDT", info[0].AmountInPaymentCurrency.Currency)
}

func TestCreatePaymentToken_Idempotent(t *testing.T) {
	cart := &fakeCart{}
	rates := &fakeRates{}
	checkouts := &fakeCheckouts{}
	s := newTestService(&fakeUsers{}, checkouts, &fakeOrders{}, rates, cart, &fakeGateway{}, newFakeNotifier())

	ck := storedCheckout(t, s)
	checkouts.findByIDFunc = func(ctx context.Context, id, email string) (*models.Checkout, error) {
		return ck, nil
	}
	cart.calls = 0

	res1 := s.CreatePaymentToken(context.Background(), ck.ID.Hex(), models.SourceBkash, testUser)
	require.True(t, res1.Success)
	firstInfo := append([]models.PaymentInfo(nil), ck.PaymentInfo...)

	res2 := s.CreatePaymentToken(context.Background(), ck.ID.Hex(), models.SourceBkash, testUser)
	require.True(t, res2.Success)

	// Premier appel gagnant : pas de recalcul ni de nouveau taux au second appel
	assert.Equal(t, firstInfo, ck.PaymentInfo)
	assert.Equal(t, 1, cart.calls)
	assert.Equal(t, 1, rates.calls)
	assert.Len(t, checkouts.updated, 1)
}

func TestCreatePaymentToken_CartDrift(t *testing.T) {
	cart := &fakeCart{}
	checkouts := &fakeCheckouts{}
	s := newTestService(&fakeUsers{}, checkouts, &fakeOrders{}, &fakeRates{}, cart, &fakeGateway{}, newFakeNotifier())

	ck := storedCheckout(t, s)
	checkouts.findByIDFunc = func(ctx context.Context, id, email string) (*models.Checkout, error) {
		return ck, nil
	}

	// Le prix d'un produit change entre la création et l'émission du token
	cart.getCartFunc = func(ctx context.Context, email string, allowRecalc, persist bool) (*models.Cart, error) {
		c := fixtureCart(email)
		c.Items[0].UnitPrice = 55
		c.Items[0].AggregatedPrice = models.USD(55)
		c.SubTotalPrice = models.USD(105)
		return c, nil
	}

	res := s.CreatePaymentToken(context.Background(), ck.ID.Hex(), models.SourceBkash, testUser)
	assert.Equal(t, http.StatusConflict, res.Code)
	assert.Empty(t, checkouts.updated)
}

func TestCreatePaymentToken_UnsupportedSource(t *testing.T) {
	checkouts := &fakeCheckouts{}
	s := newTestService(&fakeUsers{}, checkouts, &fakeOrders{}, &fakeRates{}, &fakeCart{}, &fakeGateway{}, newFakeNotifier())

	ck := storedCheckout(t, s)
	checkouts.findByIDFunc = func(ctx context.Context, id, email string) (*models.Checkout, error) {
		return ck, nil
	}

	res := s.CreatePaymentToken(context.Background(), ck.ID.Hex(), "PAYPAL", testUser)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Empty(t, checkouts.updated)
}

func TestCompleteCard_Declined(t *testing.T) {
	checkouts := &fakeCheckouts{}
	orders := &fakeOrders{}
	gw := &fakeGateway{
		authorizeFunc: func(ctx context.Context, p gateway.AuthorizeParams) (*gateway.Authorization, error) {
			return nil, gateway.ErrCardDeclined
		},
	}
	s := newTestService(&fakeUsers{}, checkouts, orders, &fakeRates{}, &fakeCart{}, gw, newFakeNotifier())

	ck := storedCheckout(t, s)
	checkouts.findByIDFunc = func(ctx context.Context, id, email string) (*models.Checkout, error) {
		return ck, nil
	}

	res := s.CompleteCheckoutUsingCard(context.Background(), ck.ID.Hex(), "pm_tok", testUser)
	assert.Equal(t, http.StatusPaymentRequired, res.Code)

	// La tentative en attente a été persistée avant l'appel gateway,
	// le checkout n'est pas supprimé, aucune commande créée
	require.Len(t, checkouts.updated, 1)
	require.Len(t, checkouts.updated[0].PaymentInfo, 1)
	assert.Equal(t, models.PaymentPending, checkouts.updated[0].PaymentInfo[0].Type)
	assert.Empty(t, checkouts.deletedIDs)
	assert.Empty(t, orders.inserted)
}

func TestCompleteCard_GatewayError(t *testing.T) {
	checkouts := &fakeCheckouts{}
	gw := &fakeGateway{
		authorizeFunc: func(ctx context.Context, p gateway.AuthorizeParams) (*gateway.Authorization, error) {
			return nil, errors.New("timeout prestataire")
		},
	}
	s := newTestService(&fakeUsers{}, checkouts, &fakeOrders{}, &fakeRates{}, &fakeCart{}, gw, newFakeNotifier())

	ck := storedCheckout(t, s)
	checkouts.findByIDFunc = func(ctx context.Context, id, email string) (*models.Checkout, error) {
		return ck, nil
	}

	res := s.CompleteCheckoutUsingCard(context.Background(), ck.ID.Hex(), "pm_tok", testUser)
	assert.Equal(t, http.StatusBadGateway, res.Code)
}

func TestCompleteCard_Success(t *testing.T) {
	checkouts := &fakeCheckouts{}
	orders := &fakeOrders{}
	gw := &fakeGateway{}
	notifier := newFakeNotifier()
	s := newTestService(&fakeUsers{}, checkouts, orders, &fakeRates{}, &fakeCart{}, gw, notifier)

	ck := storedCheckout(t, s)
	checkouts.findByIDFunc = func(ctx context.Context, id, email string) (*models.Checkout, error) {
		return ck, nil
	}

	res := s.CompleteCheckoutUsingCard(context.Background(), ck.ID.Hex(), "pm_tok", testUser)
	require.Equal(t, http.StatusCreated, res.Code)
	require.True(t, res.Success)

	// Autorisation pour le montant total, capture différée
	require.Len(t, gw.calls, 1)
	assert.Equal(t, 125.00, gw.calls[0].AmountUSD)
	assert.Equal(t, "pm_tok", gw.calls[0].Token)

	// Commande : statut reçu, tentative autorisée avec les ids gateway
	require.Len(t, orders.inserted, 1)
	order := orders.inserted[0]
	assert.Equal(t, models.StatusReceived, order.OverallStatus)
	require.Len(t, order.PaymentInfo, 1)
	assert.Equal(t, models.PaymentAuthorization, order.PaymentInfo[0].Type)
	assert.Equal(t, "pi_123", order.PaymentInfo[0].PaymentID)
	assert.Equal(t, "ch_456", order.PaymentInfo[0].TransactionID)
	assert.Equal(t, 125.00, order.PaymentInfo[0].AmountInUSD)

	// Le checkout consommé est supprimé
	assert.Equal(t, []string{ck.ID.Hex()}, checkouts.deletedIDs)

	// Notification best-effort en tâche de fond
	select {
	case sent := <-notifier.sent:
		assert.Equal(t, order.ID, sent.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("notification jamais envoyée")
	}
}

func TestCompleteCard_OrderInsertFailure(t *testing.T) {
	checkouts := &fakeCheckouts{}
	orders := &fakeOrders{
		insertFunc: func(ctx context.Context, o *models.Order) error {
			return errors.New("écriture refusée")
		},
	}
	s := newTestService(&fakeUsers{}, checkouts, orders, &fakeRates{}, &fakeCart{}, &fakeGateway{}, newFakeNotifier())

	ck := storedCheckout(t, s)
	checkouts.findByIDFunc = func(ctx context.Context, id, email string) (*models.Checkout, error) {
		return ck, nil
	}

	res := s.CompleteCheckoutUsingCard(context.Background(), ck.ID.Hex(), "pm_tok", testUser)
	assert.Equal(t, http.StatusInternalServerError, res.Code)

	// La carte est autorisée mais le checkout reste en place : état
	// intermédiaire connu, aucune suppression
	assert.Empty(t, checkouts.deletedIDs)
}

func TestCompleteCard_WebhookRecoversOrder(t *testing.T) {
	checkouts := &fakeCheckouts{}
	orders := &fakeOrders{
		insertFunc: func(ctx context.Context, o *models.Order) error {
			return errors.New("écriture refusée")
		},
	}
	notifier := newFakeNotifier()
	s := newTestService(&fakeUsers{}, checkouts, orders, &fakeRates{}, &fakeCart{}, &fakeGateway{}, notifier)

	ck := storedCheckout(t, s)
	checkouts.findByIDFunc = func(ctx context.Context, id, email string) (*models.Checkout, error) {
		return ck, nil
	}

	res := s.CompleteCheckoutUsingCard(context.Background(), ck.ID.Hex(), "pm_tok", testUser)
	require.Equal(t, http.StatusInternalServerError, res.Code)

	// L'autorisation est estampillée sur le checkout avant la commande :
	// le second Update porte l'id d'intent et les ids gateway
	require.Len(t, checkouts.updated, 2)
	stamped := checkouts.updated[1].PaymentInfo
	require.Len(t, stamped, 1)
	assert.Equal(t, models.PaymentAuthorization, stamped[0].Type)
	assert.Equal(t, "pi_123", stamped[0].PaymentID)
	assert.Equal(t, "ch_456", stamped[0].TransactionID)

	// La relivraison du webhook retrouve le checkout par (CARD, intent)
	// et rattrape la commande
	checkouts.findByPaymentFunc = func(ctx context.Context, source models.PaymentSource, paymentID string) (*models.Checkout, error) {
		if source == models.SourceCard && paymentID == "pi_123" {
			return ck, nil
		}
		return nil, repository.ErrNotFound
	}
	orders.insertFunc = nil

	res = s.CompleteCheckout(context.Background(), models.SourceCard, "pi_123")
	require.Equal(t, http.StatusCreated, res.Code)
	require.Len(t, orders.inserted, 1)
	assert.Equal(t, models.PaymentAuthorization, orders.inserted[0].PaymentInfo[0].Type)
	assert.Equal(t, "pi_123", orders.inserted[0].PaymentInfo[0].PaymentID)
	assert.Equal(t, []string{ck.ID.Hex()}, checkouts.deletedIDs)

	select {
	case <-notifier.sent:
	case <-time.After(2 * time.Second):
		t.Fatal("notification jamais envoyée")
	}
}

func TestCompleteCheckout_Webhook(t *testing.T) {
	checkouts := &fakeCheckouts{}
	orders := &fakeOrders{}
	notifier := newFakeNotifier()
	s := newTestService(&fakeUsers{}, checkouts, orders, &fakeRates{}, &fakeCart{}, &fakeGateway{}, notifier)

	ck := storedCheckout(t, s)
	rate := 121.5
	ck.PaymentInfo = []models.PaymentInfo{{
		Source:       models.SourceBkash,
		Type:         models.PaymentPending,
		PaymentID:    "tok-0001",
		AmountInUSD:  125.00,
		ExchangeRate: &rate,
	}}
	checkouts.findByPaymentFunc = func(ctx context.Context, source models.PaymentSource, paymentID string) (*models.Checkout, error) {
		if source == models.SourceBkash && paymentID == "tok-0001" {
			return ck, nil
		}
		return nil, repository.ErrNotFound
	}

	res := s.CompleteCheckout(context.Background(), models.SourceBkash, "tok-0001")
	require.Equal(t, http.StatusCreated, res.Code)

	require.Len(t, orders.inserted, 1)
	assert.Equal(t, models.StatusReceived, orders.inserted[0].OverallStatus)
	assert.Equal(t, []string{ck.ID.Hex()}, checkouts.deletedIDs)

	select {
	case <-notifier.sent:
	case <-time.After(2 * time.Second):
		t.Fatal("notification jamais envoyée")
	}
}

func TestCompleteCheckout_AlreadyConsumed(t *testing.T) {
	checkouts := &fakeCheckouts{
		findByPaymentFunc: func(ctx context.Context, source models.PaymentSource, paymentID string) (*models.Checkout, error) {
			// Checkout déjà consommé : la relivraison ne trouve rien
			return nil, repository.ErrNotFound
		},
	}
	orders := &fakeOrders{}
	s := newTestService(&fakeUsers{}, checkouts, orders, &fakeRates{}, &fakeCart{}, &fakeGateway{}, newFakeNotifier())

	res := s.CompleteCheckout(context.Background(), models.SourceBkash, "tok-0001")
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Empty(t, orders.inserted)
}
