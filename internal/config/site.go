package config

import "strings"

// SiteConfig holds request settings for one site.
type SiteConfig struct {
	// Cookie is sent with every request to the site.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are extra HTTP headers sent with every request to the site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// UserAgent overrides the global user agent for the site.
	UserAgent string `yaml:"userAgent,omitempty"`

	// SeedPaths are visited after the built-in seed paths, for sites that
	// keep their team pages somewhere unusual (e.g. "/practice/solicitors").
	SeedPaths []string `yaml:"seedPaths,omitempty"`
}

// File represents the structure of the leadcrawl configuration file.
type File struct {
	// Sites maps host names (e.g. "example.co.uk") to their configuration.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults applies to every site unless overridden in Sites.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for host, merged over the
// defaults field by field. Host lookup ignores case and a leading "www.".
// A nil File yields the zero SiteConfig.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	if cf == nil {
		return SiteConfig{}
	}

	result := cf.Defaults
	if len(cf.Defaults.Headers) > 0 {
		result.Headers = make(map[string]string, len(cf.Defaults.Headers))
		for k, v := range cf.Defaults.Headers {
			result.Headers[k] = v
		}
	}

	site, ok := cf.lookup(host)
	if !ok {
		return result
	}

	if site.Cookie != "" {
		result.Cookie = site.Cookie
	}
	if site.UserAgent != "" {
		result.UserAgent = site.UserAgent
	}
	if len(site.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string)
		}
		for k, v := range site.Headers {
			result.Headers[k] = v
		}
	}
	if len(site.SeedPaths) > 0 {
		result.SeedPaths = site.SeedPaths
	}

	return result
}

func (cf *File) lookup(host string) (SiteConfig, bool) {
	want := trimWWW(host)
	if want == "" {
		return SiteConfig{}, false
	}
	if site, ok := cf.Sites[host]; ok {
		return site, true
	}
	for key, site := range cf.Sites {
		if trimWWW(key) == want {
			return site, true
		}
	}
	return SiteConfig{}, false
}

func trimWWW(host string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(host)), "www.")
}
