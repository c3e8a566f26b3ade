package config

import "strings"

// LoadTrustedProxies 加载可信代理列表，未配置时只信任本地回环地址
func (s *Settings) LoadTrustedProxies() []string {
	var proxies []string
	for _, p := range s.TrustedProxies {
		if p = strings.TrimSpace(p); p != "" {
			proxies = append(proxies, p)
		}
	}
	if len(proxies) == 0 {
		return []string{"127.0.0.1"}
	}
	return proxies
}
