package checkout

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"velora_back_end/internal/gateway"
	"velora_back_end/internal/models"
	"velora_back_end/internal/repository"

	"github.com/google/uuid"
)

// --- Collaborateurs du service ---

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetAddress(ctx context.Context, addressID string) (*models.Address, error)
}

type CheckoutRepository interface {
	Insert(ctx context.Context, ck *models.Checkout) error
	FindByIDAndEmail(ctx context.Context, id, email string) (*models.Checkout, error)
	FindByPayment(ctx context.Context, source models.PaymentSource, paymentID string) (*models.Checkout, error)
	Update(ctx context.Context, ck *models.Checkout) error
	DeleteByEmail(ctx context.Context, email string) (int64, error)
	DeleteByID(ctx context.Context, id string) error
}

type OrderRepository interface {
	Insert(ctx context.Context, o *models.Order) error
}

type ExchangeRateRepository interface {
	GetRate(ctx context.Context, currency string) (*models.ExchangeRate, error)
}

// CartService est le sous-service panier : allowRecalc autorise le
// recalcul des lignes (prix produits re-résolus), persist sauvegarde le
// résultat côté panier
type CartService interface {
	GetCart(ctx context.Context, email string, allowRecalc, persist bool) (*models.Cart, error)
}

type PaymentGateway interface {
	Authorize(ctx context.Context, p gateway.AuthorizeParams) (*gateway.Authorization, error)
}

type Notifier interface {
	SendOrderConfirmation(order models.Order) error
}

// Service orchestre le checkout : validation, recalcul de prix, tentative
// de paiement, conversion Checkout → Order. Sans état propre — tout vit
// dans les dépôts externes
type Service struct {
	users     UserRepository
	checkouts CheckoutRepository
	orders    OrderRepository
	rates     ExchangeRateRepository
	cart      CartService
	gateway   PaymentGateway
	notifier  Notifier

	now          func() time.Time
	newPaymentID func() string
}

func NewService(
	users UserRepository,
	checkouts CheckoutRepository,
	orders OrderRepository,
	rates ExchangeRateRepository,
	cart CartService,
	gw PaymentGateway,
	notifier Notifier,
) *Service {
	return &Service{
		users:        users,
		checkouts:    checkouts,
		orders:       orders,
		rates:        rates,
		cart:         cart,
		gateway:      gw,
		notifier:     notifier,
		now:          time.Now,
		newPaymentID: func() string { return uuid.NewString() },
	}
}

// CreateCheckout valide l'adresse + le mode de livraison, recalcule le
// panier et persiste un nouveau checkout (au plus un actif par utilisateur)
func (s *Service) CreateCheckout(ctx context.Context, addressID, shippingMethod string, user models.User) Result {
	if addressID == "" || strings.TrimSpace(shippingMethod) == "" {
		return invalidInput("adresse ou mode de livraison manquant")
	}

	// L'adresse doit exister sur le profil de l'utilisateur
	addr, err := s.users.GetAddress(ctx, addressID)
	if err != nil || addr == nil || addr.UserID != user.ID {
		return invalidInput("adresse introuvable sur le profil")
	}

	// Re-résolution de l'utilisateur par email (session potentiellement périmée)
	dbUser, err := s.users.GetByEmail(ctx, user.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Printf("❌ Utilisateur introuvable pour %s", user.Email)
			return unauthorized("utilisateur inconnu")
		}
		log.Printf("❌ Erreur lecture utilisateur %s: %v", user.Email, err)
		return internalError(err.Error())
	}
	if dbUser == nil {
		return unauthorized("utilisateur inconnu")
	}

	priced, err := s.CalculatePrice(ctx, dbUser.Email, true, true)
	if err != nil {
		log.Printf("❌ Erreur calcul de prix pour %s: %v", dbUser.Email, err)
		return internalError(err.Error())
	}

	// Au plus un checkout actif : on supprime les précédents avant d'insérer
	if _, err := s.checkouts.DeleteByEmail(ctx, dbUser.Email); err != nil {
		log.Printf("❌ Erreur purge des checkouts de %s: %v", dbUser.Email, err)
		return internalError(err.Error())
	}

	now := s.now()
	ck := &models.Checkout{
		OverallStatus:  models.StatusReceived,
		UserEmail:      dbUser.Email,
		MailingAddress: *addr,
		ShippingMethod: shippingMethod,
		Cart:           *priced,
		PaymentInfo:    []models.PaymentInfo{},
		Audit: models.AuditLog{
			CreatedBy: dbUser.Email,
			CreatedAt: now,
			UpdatedBy: dbUser.Email,
			UpdatedAt: now,
		},
	}

	if err := s.checkouts.Insert(ctx, ck); err != nil {
		log.Printf("❌ Erreur insertion checkout pour %s: %v", dbUser.Email, err)
		return internalError(err.Error())
	}

	log.Printf("🛒 Checkout créé %s (%.2f USD) pour %s", ck.ID.Hex(), ck.Cart.TotalPrice.Amount, dbUser.Email)
	return ok(http.StatusCreated, ck)
}

// CreatePaymentToken attache une tentative de paiement au checkout.
// Idempotent : si une tentative existe déjà, elle est retournée telle quelle
func (s *Service) CreatePaymentToken(ctx context.Context, checkoutID string, source models.PaymentSource, user models.User) Result {
	if checkoutID == "" || source == "" {
		return invalidInput("checkout_id ou source de paiement manquant")
	}

	ck, err := s.checkouts.FindByIDAndEmail(ctx, checkoutID, user.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("checkout introuvable")
		}
		log.Printf("❌ Erreur lecture checkout %s: %v", checkoutID, err)
		return internalError(err.Error())
	}

	// Premier appel gagnant : une tentative déjà attachée est retournée sans recalcul
	if len(ck.PaymentInfo) > 0 {
		return ok(http.StatusOK, tokenPayload(ck))
	}

	if res := s.ensureCartUnchanged(ctx, ck); res != nil {
		return *res
	}

	issue, known := tokenIssuers[source]
	if !known {
		return invalidInput("source de paiement non supportée : " + string(source))
	}

	entry, err := issue(ctx, s, ck.Cart.TotalPrice.Amount)
	if err != nil {
		log.Printf("❌ Erreur émission token %s pour %s: %v", source, ck.UserEmail, err)
		return internalError(err.Error())
	}

	ck.PaymentInfo = append(ck.PaymentInfo, *entry)
	s.touch(ck, user.Email)

	if err := s.checkouts.Update(ctx, ck); err != nil {
		log.Printf("❌ Erreur sauvegarde checkout %s: %v", checkoutID, err)
		return internalError(err.Error())
	}

	log.Printf("💳 Token %s émis (%s) pour checkout %s", source, entry.PaymentID, checkoutID)
	return ok(http.StatusOK, tokenPayload(ck))
}

// CompleteCheckoutUsingCard pose une autorisation carte (capture différée)
// puis convertit le checkout en commande
func (s *Service) CompleteCheckoutUsingCard(ctx context.Context, checkoutID, paymentToken string, user models.User) Result {
	if checkoutID == "" || paymentToken == "" {
		return invalidInput("checkout_id ou token de paiement manquant")
	}

	ck, err := s.checkouts.FindByIDAndEmail(ctx, checkoutID, user.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("checkout introuvable")
		}
		log.Printf("❌ Erreur lecture checkout %s: %v", checkoutID, err)
		return internalError(err.Error())
	}

	if res := s.ensureCartUnchanged(ctx, ck); res != nil {
		return *res
	}

	// Point de reprise : la tentative est persistée avant l'appel gateway,
	// pour que le checkout en garde la trace si l'appel échoue
	total := ck.Cart.TotalPrice.Amount
	ck.PaymentInfo = []models.PaymentInfo{{
		Source:      models.SourceCard,
		Type:        models.PaymentPending,
		AmountInUSD: total,
	}}
	s.touch(ck, user.Email)
	if err := s.checkouts.Update(ctx, ck); err != nil {
		log.Printf("❌ Erreur checkpoint paiement %s: %v", checkoutID, err)
		return internalError(err.Error())
	}

	auth, err := s.gateway.Authorize(ctx, gateway.AuthorizeParams{
		AmountUSD:  total,
		Token:      paymentToken,
		CheckoutID: ck.ID.Hex(),
		Email:      ck.UserEmail,
		Descriptor: "VELORA",
	})
	if err != nil {
		if errors.Is(err, gateway.ErrCardDeclined) {
			log.Printf("💳 Carte refusée pour checkout %s: %v", checkoutID, err)
			return paymentDeclined("paiement refusé")
		}
		log.Printf("❌ Erreur gateway pour checkout %s: %v", checkoutID, err)
		return gatewayError("erreur du prestataire de paiement")
	}

	// L'id d'intent est posé sur le checkout avant l'insertion de la
	// commande : si le processus meurt dans l'intervalle, la relivraison du
	// webhook Stripe retrouve le checkout par (CARD, intent) et rattrape
	ck.PaymentInfo[0].Type = models.PaymentAuthorization
	ck.PaymentInfo[0].PaymentID = auth.ChargeID
	ck.PaymentInfo[0].TransactionID = auth.TransactionID
	s.touch(ck, user.Email)
	if err := s.checkouts.Update(ctx, ck); err != nil {
		log.Printf("⚠️ Marquage autorisation sur checkout %s échoué: %v", checkoutID, err)
	}

	order := models.OrderFromCheckout(*ck)
	now := s.now()
	order.Audit = models.AuditLog{
		CreatedBy: user.Email,
		CreatedAt: now,
		UpdatedBy: user.Email,
		UpdatedAt: now,
	}

	if err := s.orders.Insert(ctx, &order); err != nil {
		// La carte est déjà autorisée et le checkout existe toujours :
		// état intermédiaire connu, aucune compensation définie à ce niveau
		log.Printf("❌ Erreur insertion commande (autorisation %s orpheline): %v", auth.ChargeID, err)
		return internalError(err.Error())
	}

	s.finalize(ctx, ck, order)

	log.Printf("✅ Commande %s créée par carte (%.2f USD) pour %s", order.ID.Hex(), total, ck.UserEmail)
	return ok(http.StatusCreated, orderPayload(order))
}

// CompleteCheckout est le point d'entrée asynchrone (callback de
// confirmation de paiement) : pas de contexte utilisateur, le checkout est
// retrouvé par (source, payment_id). Un checkout déjà consommé rend la
// relivraison du callback inoffensive
func (s *Service) CompleteCheckout(ctx context.Context, source models.PaymentSource, paymentID string) Result {
	if source == "" || paymentID == "" {
		return invalidInput("source ou payment_id manquant")
	}

	ck, err := s.checkouts.FindByPayment(ctx, source, paymentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("aucun checkout pour ce paiement")
		}
		log.Printf("❌ Erreur recherche checkout (%s, %s): %v", source, paymentID, err)
		return internalError(err.Error())
	}

	order := models.OrderFromCheckout(*ck)
	now := s.now()
	order.Audit = models.AuditLog{
		CreatedBy: ck.UserEmail,
		CreatedAt: now,
		UpdatedBy: ck.UserEmail,
		UpdatedAt: now,
	}

	if err := s.orders.Insert(ctx, &order); err != nil {
		log.Printf("❌ Erreur insertion commande (callback %s): %v", paymentID, err)
		return internalError(err.Error())
	}

	s.finalize(ctx, ck, order)

	log.Printf("✅ Commande %s créée via callback %s pour %s", order.ID.Hex(), source, ck.UserEmail)
	return ok(http.StatusCreated, orderPayload(order))
}

// finalize supprime le checkout consommé et notifie l'utilisateur.
// La notification part en tâche de fond : son échec est loggé, jamais remonté
func (s *Service) finalize(ctx context.Context, ck *models.Checkout, order models.Order) {
	if err := s.checkouts.DeleteByID(ctx, ck.ID.Hex()); err != nil {
		log.Printf("⚠️ Suppression checkout %s échouée: %v", ck.ID.Hex(), err)
	}

	go func() {
		if err := s.notifier.SendOrderConfirmation(order); err != nil {
			log.Printf("❌ Erreur envoi confirmation commande %s: %v", order.ID.Hex(), err)
		} else {
			log.Printf("📧 Confirmation envoyée à %s", order.UserEmail)
		}
	}()
}

// ensureCartUnchanged recompare le panier stocké à un recalcul frais ;
// toute dérive (prix, lignes) est rendue au client pour retenter
func (s *Service) ensureCartUnchanged(ctx context.Context, ck *models.Checkout) *Result {
	fresh, err := s.CalculatePrice(ctx, ck.UserEmail, true, false)
	if err != nil {
		log.Printf("❌ Erreur recalcul panier pour %s: %v", ck.UserEmail, err)
		res := internalError(err.Error())
		return &res
	}
	if !cartsEqual(ck.Cart, *fresh) {
		log.Printf("⚠️ Panier modifié depuis la création du checkout %s", ck.ID.Hex())
		res := conflict("le panier a changé, veuillez réessayer")
		return &res
	}
	return nil
}

func (s *Service) touch(ck *models.Checkout, actor string) {
	ck.Audit.UpdatedBy = actor
	ck.Audit.UpdatedAt = s.now()
}

func tokenPayload(ck *models.Checkout) map[string]any {
	return map[string]any{
		"checkoutId":  ck.ID.Hex(),
		"paymentInfo": ck.PaymentInfo,
	}
}

func orderPayload(order models.Order) map[string]any {
	return map[string]any{"orderId": order.ID.Hex()}
}
