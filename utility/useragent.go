// Licensed to Elasticsearch B.V. under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. Elasticsearch B.V. licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package utility

import (
	"strings"

	"github.com/dlclark/regexp2"
)

const (
	// UnknownBrowser is the browser name of unrecognized user agents.
	UnknownBrowser = "unknown"

	// BotBrowser is the browser name of crawlers and other robots.
	BotBrowser = "bot"

	// UnknownOS is the OS name when no OS can be recognized.
	UnknownOS = "unknown"
)

type pattern struct {
	re   *regexp2.Regexp
	name string
}

func patterns(opts regexp2.RegexOptions, pairs ...string) []pattern {
	out := make([]pattern, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, pattern{re: regexp2.MustCompile(pairs[i], opts), name: pairs[i+1]})
	}
	return out
}

// browserPatterns are tried in order; the first match wins. The first
// capture group holds the version, or the bot token for bots.
var browserPatterns = append(patterns(regexp2.None,
	`AOLShield\/([0-9\._]+)`, "aol",
	`Edge\/([0-9\._]+)`, "edge",
	`YaBrowser\/([0-9\._]+)`, "yandexbrowser",
	`Vivaldi\/([0-9\.]+)`, "vivaldi",
	`KAKAOTALK\s([0-9\.]+)`, "kakaotalk",
	`SamsungBrowser\/([0-9\.]+)`, "samsung",
	`(?!Chrom.*OPR)Chrom(?:e|ium)\/([0-9\.]+)(:?\s|$)`, "chrome",
	`PhantomJS\/([0-9\.]+)(:?\s|$)`, "phantomjs",
	`CriOS\/([0-9\.]+)(:?\s|$)`, "crios",
	`Firefox\/([0-9\.]+)(?:\s|$)`, "firefox",
	`FxiOS\/([0-9\.]+)`, "fxios",
	`Opera\/([0-9\.]+)(?:\s|$)`, "opera",
	`OPR\/([0-9\.]+)(:?\s|$)$`, "opera",
	`Trident\/7\.0.*rv\:([0-9\.]+).*\).*Gecko$`, "ie",
	`MSIE\s([0-9\.]+);.*Trident\/[4-7].0`, "ie",
	`MSIE\s(7\.0)`, "ie",
	`BB10;\sTouch.*Version\/([0-9\.]+)`, "bb10",
	`Android\s([0-9\.]+)`, "android",
	`Version\/([0-9\._]+).*Mobile.*Safari.*`, "ios",
	`Version\/([0-9\._]+).*Safari`, "safari",
	`FBAV\/([0-9\.]+)`, "facebook",
	`Instagram\s([0-9\.]+)`, "instagram",
	`AppleWebKit\/([0-9\.]+).*Mobile`, "ios-webview",
), patterns(regexp2.IgnoreCase,
	`(nuhk|slurp|ask jeeves\/teoma|ia_archiver|alexa|crawl|crawler|crawling|facebookexternalhit|feedburner|google web preview|nagios|postrank|pingdom|slurp|spider|yahoo!|yandex|\w+bot)`, BotBrowser,
)...)

// osPatterns are tried in order; the first match wins.
var osPatterns = patterns(regexp2.None,
	`iP(hone|od|ad)`, "iOS",
	`Android`, "Android OS",
	`BlackBerry|BB10`, "BlackBerry OS",
	`IEMobile`, "Windows Mobile",
	`Kindle`, "Amazon OS",
	`Win16`, "Windows 3.11",
	`(Windows 95)|(Win95)|(Windows_95)`, "Windows 95",
	`(Windows 98)|(Win98)`, "Windows 98",
	`(Windows NT 5.0)|(Windows 2000)`, "Windows 2000",
	`(Windows NT 5.1)|(Windows XP)`, "Windows XP",
	`(Windows NT 5.2)`, "Windows Server 2003",
	`(Windows NT 6.0)`, "Windows Vista",
	`(Windows NT 6.1)`, "Windows 7",
	`(Windows NT 6.2)`, "Windows 8",
	`(Windows NT 6.3)`, "Windows 8.1",
	`(Windows NT 10.0)`, "Windows 10",
	`Windows ME`, "Windows ME",
	`OpenBSD`, "Open BSD",
	`SunOS`, "Sun OS",
	`(Linux)|(X11)`, "Linux",
	`(Mac_PowerPC)|(Macintosh)`, "Mac OS",
	`QNX`, "QNX",
	`BeOS`, "BeOS",
	`OS\/2`, "OS/2",
)

// UserAgent is the classification of a User-Agent header.
type UserAgent struct {
	// Browser is the browser name, BotBrowser, or UnknownBrowser.
	Browser string

	// Version is the normalized browser version, or for bots the
	// normalized bot token. It is empty if none was found.
	Version string

	// OS is the operating system name. It is UnknownOS for bots and
	// unrecognized browsers.
	OS string
}

// Identified reports whether ua is a recognized browser other than a bot.
func (ua UserAgent) Identified() bool {
	return ua.Browser != UnknownBrowser && ua.Browser != BotBrowser
}

// ParseUserAgent classifies the User-Agent header value s.
func ParseUserAgent(s string) UserAgent {
	ua := UserAgent{Browser: UnknownBrowser, OS: UnknownOS}
	for _, p := range browserPatterns {
		m, err := p.re.FindStringMatch(s)
		if err != nil || m == nil {
			continue
		}
		ua.Browser = p.name
		if g := m.GroupByNumber(1); g != nil && len(g.Captures) > 0 {
			ua.Version = normalizeVersion(g.String())
		}
		break
	}
	if !ua.Identified() {
		return ua
	}
	for _, p := range osPatterns {
		if ok, err := p.re.MatchString(s); err == nil && ok {
			ua.OS = p.name
			break
		}
	}
	return ua
}

func normalizeVersion(v string) string {
	return strings.ToLower(strings.ReplaceAll(v, "_", "."))
}
