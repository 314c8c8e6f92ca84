package utils

import "sync/atomic"

// ParseProgress counts outcomes of a batch while workers run.
type ParseProgress struct {
	total   int64
	parsed  int64
	skipped int64
	failed  int64
}

func (p *ParseProgress) Init(total int) {
	atomic.StoreInt64(&p.total, int64(total))
	atomic.StoreInt64(&p.parsed, 0)
	atomic.StoreInt64(&p.skipped, 0)
	atomic.StoreInt64(&p.failed, 0)
}

func (p *ParseProgress) AddParsed()  { atomic.AddInt64(&p.parsed, 1) }
func (p *ParseProgress) AddSkipped() { atomic.AddInt64(&p.skipped, 1) }
func (p *ParseProgress) AddFailed()  { atomic.AddInt64(&p.failed, 1) }

func (p *ParseProgress) Counts() (parsed, skipped, failed int) {
	return int(atomic.LoadInt64(&p.parsed)),
		int(atomic.LoadInt64(&p.skipped)),
		int(atomic.LoadInt64(&p.failed))
}

// GetProgress returns the share of units handled so far, in percent.
func (p *ParseProgress) GetProgress() float64 {
	total := atomic.LoadInt64(&p.total)
	if total == 0 {
		return 0
	}
	done := atomic.LoadInt64(&p.parsed) + atomic.LoadInt64(&p.skipped) + atomic.LoadInt64(&p.failed)
	return float64(done) / float64(total) * 100
}

// MatchingProgress tracks how many fresh packets the rename passes matched.
type MatchingProgress struct {
	totalPackets int64
	matchedSoFar int64
}

func (p *MatchingProgress) Init(total int) {
	atomic.StoreInt64(&p.totalPackets, int64(total))
	atomic.StoreInt64(&p.matchedSoFar, 0)
}

func (p *MatchingProgress) AddMatches(count int) {
	atomic.AddInt64(&p.matchedSoFar, int64(count))
}

func (p *MatchingProgress) Matched() int {
	return int(atomic.LoadInt64(&p.matchedSoFar))
}

func (p *MatchingProgress) GetProgress() float64 {
	total := atomic.LoadInt64(&p.totalPackets)
	if total == 0 {
		return 0
	}
	matched := atomic.LoadInt64(&p.matchedSoFar)
	return float64(matched) / float64(total) * 100
}
