//go:build integration

package integration

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/voucher-redemption-system/internal/repository"
	"github.com/fairyhunter13/voucher-redemption-system/internal/service"
)

// TestConcurrentIssuanceSameUser verifies the one-voucher-per-user rule
// under concurrency.
// Given two concurrent issuance requests for the same user
// When both requests attempt to issue simultaneously
// Then exactly one succeeds
// And exactly one fails with ErrAlreadyHasVoucher
// And exactly one voucher row exists for the user
func TestConcurrentIssuanceSameUser(t *testing.T) {
	cleanupTables(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	const userPhone = "5550007777"
	createTestUser(t, userPhone, "Race User", "race@example.com")

	// Setup service
	voucherRepo := repository.NewVoucherRepository(testPool)
	userRepo := repository.NewUserRepository(testPool)
	dealerRepo := repository.NewDealerRepository(testPool)
	voucherService := service.NewVoucherService(testPool, voucherRepo, userRepo, dealerRepo)

	// Execute: Two concurrent issuances for the same user
	var wg sync.WaitGroup
	results := make(chan error, 2)

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := voucherService.Issue(ctx, userPhone)
			results <- err
		}()
	}

	wg.Wait()
	close(results)

	// Verify: exactly 1 success, exactly 1 ErrAlreadyHasVoucher
	var successes, conflicts, otherErrors int
	for err := range results {
		if err == nil {
			successes++
		} else if errors.Is(err, service.ErrAlreadyHasVoucher) {
			conflicts++
		} else {
			otherErrors++
			t.Logf("Unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes, "Exactly one issuance should succeed")
	assert.Equal(t, 1, conflicts, "Exactly one issuance should fail with ErrAlreadyHasVoucher")
	assert.Equal(t, 0, otherErrors, "No other errors should occur")

	// Verify database state: exactly one voucher for the user
	assert.Equal(t, 1, countVouchersForUser(t, userPhone), "Exactly one voucher row should exist")
}

// TestConcurrentRedemptionSameVoucher verifies exactly-once redemption.
// Given two dealers racing to redeem the same voucher
// When both requests attempt to redeem simultaneously
// Then exactly one succeeds
// And exactly one fails with ErrAlreadyRedeemed
// And the voucher is attributed to exactly one dealer
func TestConcurrentRedemptionSameVoucher(t *testing.T) {
	cleanupTables(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	const userPhone = "5550008888"
	createTestUser(t, userPhone, "Race User", "race2@example.com")
	createTestDistributor(t, "D9", "hunter22", "Race Distribution", "560001")
	createTestDealer(t, "X91", "hunter22", "First Racer", "560001", "D9")
	createTestDealer(t, "X92", "hunter22", "Second Racer", "560002", "D9")

	// Setup service and issue the contested voucher
	voucherRepo := repository.NewVoucherRepository(testPool)
	userRepo := repository.NewUserRepository(testPool)
	dealerRepo := repository.NewDealerRepository(testPool)
	voucherService := service.NewVoucherService(testPool, voucherRepo, userRepo, dealerRepo)

	voucher, err := voucherService.Issue(ctx, userPhone)
	require.NoError(t, err)

	// Execute: Two dealers race to redeem the same voucher
	dealers := []string{"X91", "X92"}
	var wg sync.WaitGroup
	results := make(chan error, len(dealers))

	for _, dealerNumber := range dealers {
		wg.Add(1)
		go func(dealer string) {
			defer wg.Done()
			results <- voucherService.Redeem(ctx, voucher.ID, dealer)
		}(dealerNumber)
	}

	wg.Wait()
	close(results)

	// Verify: exactly 1 success, exactly 1 ErrAlreadyRedeemed
	var successes, conflicts, otherErrors int
	for err := range results {
		if err == nil {
			successes++
		} else if errors.Is(err, service.ErrAlreadyRedeemed) {
			conflicts++
		} else {
			otherErrors++
			t.Logf("Unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes, "Exactly one redemption should succeed")
	assert.Equal(t, 1, conflicts, "Exactly one redemption should fail with ErrAlreadyRedeemed")
	assert.Equal(t, 0, otherErrors, "No other errors should occur")

	// Verify database state: redeemed, attributed to exactly one racer
	status, redeemedBy := getVoucherFromDB(t, voucher.ID)
	assert.Equal(t, "redeemed", status)
	require.NotNil(t, redeemedBy, "Redemption must be attributed")
	assert.Contains(t, dealers, *redeemedBy)

	// The winner's log has the entry; the loser's log is empty
	winnerLog, err := voucherRepo.ListRedemptionsByDealer(ctx, *redeemedBy)
	require.NoError(t, err)
	require.Len(t, winnerLog, 1, "Winning dealer should have exactly one log entry")
	assert.Equal(t, voucher.ID, winnerLog[0].VoucherID)

	loser := dealers[0]
	if loser == *redeemedBy {
		loser = dealers[1]
	}
	loserLog, err := voucherRepo.ListRedemptionsByDealer(ctx, loser)
	require.NoError(t, err)
	assert.Len(t, loserLog, 0, "Losing dealer should have no log entry")
}

// TestConcurrentRedemptionManyAttempts hammers a single voucher with
// many concurrent redemption attempts and expects a single winner.
func TestConcurrentRedemptionManyAttempts(t *testing.T) {
	cleanupTables(t)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	const userPhone = "5550009999"
	createTestUser(t, userPhone, "Hammer User", "hammer@example.com")
	createTestDistributor(t, "D10", "hunter22", "Hammer Distribution", "560001")
	createTestDealer(t, "X99", "hunter22", "Hammer Dealer", "560001", "D10")

	voucherRepo := repository.NewVoucherRepository(testPool)
	userRepo := repository.NewUserRepository(testPool)
	dealerRepo := repository.NewDealerRepository(testPool)
	voucherService := service.NewVoucherService(testPool, voucherRepo, userRepo, dealerRepo)

	voucher, err := voucherService.Issue(ctx, userPhone)
	require.NoError(t, err)

	const attempts = 10
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- voucherService.Redeem(ctx, voucher.ID, "X99")
		}()
	}

	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		if err == nil {
			successes++
		} else if errors.Is(err, service.ErrAlreadyRedeemed) {
			conflicts++
		} else {
			t.Errorf("Unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes, "Exactly one redemption should succeed")
	assert.Equal(t, attempts-1, conflicts, "All other attempts should fail with ErrAlreadyRedeemed")

	// The log must have exactly one entry despite the hammering
	log, err := voucherRepo.ListRedemptionsByDealer(ctx, "X99")
	require.NoError(t, err)
	assert.Len(t, log, 1, "Dealer log should have exactly one entry")
}
