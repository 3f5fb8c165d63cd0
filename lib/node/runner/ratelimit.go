package runner

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	logging "github.com/inconshreveable/log15"
	"github.com/ulule/limiter"
	"github.com/ulule/limiter/drivers/store/memory"

	"boscoin.io/obscura/lib/errors"
	"boscoin.io/obscura/lib/httputils"
)

// DefaultRateLimitAPI allows 100 requests per second for each client address.
var DefaultRateLimitAPI = limiter.Rate{Formatted: "100-S", Period: time.Second, Limit: 100}

// RateLimitRule is the default rate plus the rates for single IP addresses.
// A rate with zero limit means no limit.
type RateLimitRule struct {
	Default     limiter.Rate
	ByIPAddress map[string]limiter.Rate
}

func NewRateLimitRule(rate limiter.Rate) RateLimitRule {
	return RateLimitRule{
		Default:     rate,
		ByIPAddress: map[string]limiter.Rate{},
	}
}

// String formats the rule back into the `<limit>-<period>` and
// `<ip>=<limit>-<period>` forms it was parsed from.
func (r RateLimitRule) String() string {
	s := []string{r.Default.Formatted}
	for ip, rate := range r.ByIPAddress {
		s = append(s, ip+"="+rate.Formatted)
	}
	return strings.Join(s, " ")
}

// ParseRate parses `<limit>-<period>`; the period is one of `S`, `M`, `H`
// in any case.
func ParseRate(s string) (limiter.Rate, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return limiter.Rate{}, errors.InvalidRateLimitRule.Clone().SetData("rule", s)
	}
	if _, err := strconv.ParseInt(parts[0], 10, 64); err != nil {
		return limiter.Rate{}, errors.InvalidRateLimitRule.Clone().SetData("rule", s)
	}

	rate, err := limiter.NewRateFromFormatted(parts[0] + "-" + strings.ToUpper(parts[1]))
	if err != nil {
		return limiter.Rate{}, errors.InvalidRateLimitRule.Clone().SetData("rule", s).SetData("error", err.Error())
	}

	return rate, nil
}

// ParseRateLimitRule parses the rules given on the command line. A rule is
// `<limit>-<period>` for the default or `<ip>=<limit>-<period>` for one
// address. When the default is given more than once the last one wins.
func ParseRateLimitRule(rules []string, defaultRate limiter.Rate) (RateLimitRule, error) {
	rule := NewRateLimitRule(defaultRate)

	for _, s := range rules {
		s = strings.TrimSpace(s)
		if len(s) < 1 {
			continue
		}

		var ip string
		if i := strings.Index(s, "="); i >= 0 {
			ip, s = strings.TrimSpace(s[:i]), s[i+1:]
			if net.ParseIP(ip) == nil {
				return RateLimitRule{}, errors.InvalidRateLimitRule.Clone().SetData("ip", ip)
			}
		}

		rate, err := ParseRate(s)
		if err != nil {
			return RateLimitRule{}, err
		}

		if len(ip) > 0 {
			rule.ByIPAddress[ip] = rate
		} else {
			rule.Default = rate
		}
	}

	return rule, nil
}

// RateLimitMiddleware limits the requests of each client address. Requests
// over the limit get a `TooManyRequests` problem.
func RateLimitMiddleware(logger logging.Logger, rule RateLimitRule) mux.MiddlewareFunc {
	store := memory.NewStore()

	newLimiter := func(rate limiter.Rate) *limiter.Limiter {
		if rate.Limit < 1 {
			return nil
		}
		return limiter.New(store, rate)
	}

	defaultLimiter := newLimiter(rule.Default)
	byIP := map[string]*limiter.Limiter{}
	for ip, rate := range rule.ByIPAddress {
		byIP[ip] = newLimiter(rate)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := remoteIP(r)

			l, found := byIP[ip]
			if !found {
				l = defaultLimiter
			}
			if l == nil {
				next.ServeHTTP(w, r)
				return
			}

			context, err := l.Get(r.Context(), ip)
			if err != nil {
				logger.Error("failed to get rate limit", "ip", ip, "error", err)
				httputils.WriteJSONError(w, errors.HTTPServerError)
				return
			}

			w.Header().Add("X-RateLimit-Limit", strconv.FormatInt(context.Limit, 10))
			w.Header().Add("X-RateLimit-Remaining", strconv.FormatInt(context.Remaining, 10))
			w.Header().Add("X-RateLimit-Reset", strconv.FormatInt(context.Reset, 10))

			if context.Reached {
				logger.Debug("rate limit reached", "ip", ip, "limit", context.Limit)
				httputils.WriteJSONError(w, errors.TooManyRequests.Clone().SetData("ip", ip))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
