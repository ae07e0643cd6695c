// Command oneclick runs the one-click login flow in the terminal against a
// demo backend.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/rusq/dlog"
	"golang.org/x/term"

	"github.com/datashield/oneclick"
	"github.com/datashield/oneclick/authflow"
	"github.com/datashield/oneclick/channel"
)

var (
	configFile = flag.String("config", "oneclick.yaml", "YAML configuration `file`")
	envFile    = flag.String("env", ".env", "environment `file` with ONECLICK_* variables")
	credsFile  = flag.String("creds", "", "encrypted credentials `file`, registered credentials are saved there")
	lang       = flag.String("lang", "", "BCP-47 language `code` of the login screen")
	debug      = flag.Bool("debug", false, "enable debug output")
)

var (
	okc   = color.New(color.FgGreen, color.Bold)
	errc  = color.New(color.FgRed, color.Bold)
	infoc = color.New(color.FgCyan)
)

func main() {
	flag.Parse()
	if *debug {
		oneclick.Log = dlog.New(os.Stderr, "oneclick: ", log.LstdFlags, true)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx); err != nil {
		errc.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	cfg, err := readConfig(*configFile)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	cfg.applyEnv()
	if *lang != "" {
		cfg.Language = *lang
	}

	queue := oneclick.NewQueueDispatcher(8)
	opts := []oneclick.Option{
		oneclick.WithPlatform(devicePlatform(cfg.Device)),
		oneclick.WithPresenter(authflow.TermPresenter{Names: cfg.Icons}),
		oneclick.WithHandshaker(demoBackend(cfg.Phone)),
		oneclick.WithAssetLoader(dirAssets(cfg.AssetDir)),
		oneclick.WithDispatcher(queue),
		oneclick.WithDebug(*debug),
	}
	if *credsFile != "" {
		opts = append(opts, oneclick.WithCredentialsFile(*credsFile))
	}
	if err := channel.Configure(opts, channel.WithHostProvider(func() oneclick.HostHandle {
		return oneclick.StrongHost(os.Stdout)
	})); err != nil {
		return err
	}
	p, err := channel.Shared()
	if err != nil {
		return err
	}

	if err := setup(ctx, p, cfg); err != nil {
		return err
	}

	supported, err := p.Handle(ctx, channel.Call{Method: "getSupportsOneClickLogin"})
	if err != nil {
		return err
	}
	if supported != true {
		errc.Println("one-click login is not supported on this device")
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	p.Listen(channel.EventSinkFunc(func(ev map[string]any) {
		report(ev)
		if t, _ := ev["type"].(string); strings.HasPrefix(t, "login_") {
			cancel()
		}
	}))
	if _, err := p.Handle(ctx, channel.Call{Method: "startLogin"}); err != nil {
		return err
	}
	// results and icon clicks are delivered here
	if err := queue.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// setup sends the configuration to the plugin.
func setup(ctx context.Context, p *channel.Plugin, cfg config) error {
	if cfg.SecretKey == "" && p.Manager().Config().IsEmpty() && term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Print("Secret key: ")
		sk, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return err
		}
		cfg.SecretKey = strings.TrimSpace(string(sk))
	}

	var calls []channel.Call
	if cfg.Token != "" || cfg.AccessKey != "" || cfg.SecretKey != "" {
		calls = append(calls, mkcall("register", map[string]string{"token": cfg.Token, "ak": cfg.AccessKey, "sk": cfg.SecretKey}))
	}
	if cfg.Language != "" {
		calls = append(calls, mkcall("setLanguage", map[string]string{"languageCode": cfg.Language}))
	}
	if cfg.Logo != "" {
		calls = append(calls, mkcall("setLogo", map[string]string{"resName": cfg.Logo}))
	}
	if len(cfg.Icons) > 0 {
		calls = append(calls, mkcall("setMoreLoginIcons", map[string]any{"resNames": cfg.Icons}))
	}
	if cfg.Operator != "" {
		calls = append(calls, mkcall("setPhoneOperator", map[string]string{"operator": cfg.Operator}))
	}
	if cfg.IP != "" {
		calls = append(calls, mkcall("setIp", map[string]string{"ip": cfg.IP}))
	}
	for _, c := range calls {
		if _, err := p.Handle(ctx, c); err != nil {
			return fmt.Errorf("%s: %w", c.Method, err)
		}
	}
	return nil
}

func mkcall(method string, args any) channel.Call {
	b, err := json.Marshal(args)
	if err != nil {
		panic(err) // maps of strings always marshal
	}
	return channel.Call{Method: method, Args: b}
}

func report(ev map[string]any) {
	switch ev["type"] {
	case "icon_click":
		infoc.Printf("alternate login option %v selected\n", ev["index"])
	case "login_success":
		okc.Println("logged in")
		if data, ok := ev["data"].(map[string]any); ok {
			for k, v := range data {
				fmt.Printf("  %s: %v\n", k, v)
			}
		}
	case "login_failure":
		code, _ := ev["code"].(int)
		errc.Printf("login failed: %s\n", oneclick.LoginErrorCode(code))
	}
}

func devicePlatform(d device) oneclick.Platform {
	return oneclick.StaticPlatform{
		DeviceCapabilitySnapshot: oneclick.DeviceCapabilitySnapshot{
			HasSIM:              !d.NoSIM,
			CarrierAPIAvailable: !d.NoCarrier,
			NetworkReachable:    !d.Offline,
			CellularDataEnabled: !d.NoCellular,
		},
		Lang: localeFromEnv(),
	}
}

// localeFromEnv converts LANG (i.e. "th_TH.UTF-8") to BCP-47.
func localeFromEnv() string {
	l := os.Getenv("LANG")
	if i := strings.IndexAny(l, ".@"); i >= 0 {
		l = l[:i]
	}
	if l == "C" || l == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(l, "_", "-")
}

// demoBackend returns the handshaker that accepts any credentials and
// reports phone as the verified number.
func demoBackend(phone string) oneclick.Handshaker {
	return oneclick.HandshakerFunc(func(ctx context.Context, req oneclick.Request) (map[string]any, error) {
		if phone == "" {
			return nil, fmt.Errorf("demo backend: %w", oneclick.ErrPhone)
		}
		return oneclick.ParsePayload(fmt.Sprintf(`{"phone":%q,"operator":%q,"flow":%q}`, phone, req.PhoneOperator, req.FlowID))
	})
}

// dirAssets loads assets from dir/<catalogue>/<name>.png, the asset is the
// file path.  Without dir every name resolves to itself.
type dirAssets string

func (d dirAssets) LoadAsset(_ context.Context, catalogue, name string) (oneclick.Asset, error) {
	if d == "" {
		return name, nil
	}
	path := filepath.Join(string(d), catalogue, name+".png")
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, oneclick.ErrAssetNotFound
		}
		return nil, err
	}
	return path, nil
}
