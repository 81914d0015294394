package cron

import (
	"context"
	"time"

	"github.com/cmlabs-hris/leave-engine-go/internal/domain/leave"
)

// AccrualJobs contains balance accrual cron jobs
type AccrualJobs struct {
	leaveService leave.LeaveService
}

// NewAccrualJobs creates accrual cron jobs
func NewAccrualJobs(leaveService leave.LeaveService) *AccrualJobs {
	return &AccrualJobs{
		leaveService: leaveService,
	}
}

// RegisterJobs registers all accrual-related cron jobs
func (j *AccrualJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	// Grant periodic accrual; the service only grants on period boundaries,
	// so a coarse tick is safe.
	scheduler.AddJob(
		"grant_leave_accrual",
		interval,
		j.GrantAccrual,
	)
}

// GrantAccrual applies monthly/yearly accrual for every active leave type
func (j *AccrualJobs) GrantAccrual(ctx context.Context) error {
	return j.leaveService.RunAccrual(ctx, time.Now().UTC())
}
