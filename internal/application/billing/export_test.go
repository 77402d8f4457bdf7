package billing

import "time"

// SetClock fija el reloj del caso de uso en tests.
func SetClock(uc *GenerateBillingUseCase, now func() time.Time) {
	uc.now = now
}
