package scan

import "time"

// Option is a functional option for configuring Scanner
type Option func(*Scanner)

// WithTimeout sets the timeout for the entire sweep
func WithTimeout(d time.Duration) Option {
	return func(s *Scanner) {
		s.timeout = d
	}
}

// WithSkipHostDiscovery treats all hosts as online (-Pn)
// Useful for networks that block ICMP
func WithSkipHostDiscovery(skip bool) Option {
	return func(s *Scanner) {
		s.skipHostDiscovery = skip
	}
}
