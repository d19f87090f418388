package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/samber/do"
	"github.com/serroba/fraglink/internal/container"
	"github.com/serroba/fraglink/internal/link"
	"github.com/serroba/fraglink/internal/payload"
	"github.com/serroba/fraglink/internal/qr"
	"github.com/spf13/cobra"
)

var errBrokenLink = errors.New("invalid or broken link")

// addCommands attaches the offline link tools to root. options is read when a command runs,
// after flags are parsed.
func addCommands(root *cobra.Command, options func() *container.Options) {
	root.AddCommand(
		encodeCommand(options),
		decodeCommand(),
		qrCommand(options),
		whatsAppCommand(options),
		mailtoCommand(options),
	)
}

func printLink(cmd *cobra.Command, opts *container.Options, destination string) error {
	injector := do.New()
	do.ProvideValue(injector, opts)
	container.CodecPackage(injector)

	shortURL, _, err := do.MustInvoke[*link.Builder](injector).Build(destination)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), shortURL)

	return err
}

func encodeCommand(options func() *container.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "encode <url>",
		Short: "Compose a fragment link for an http(s) or mailto: destination",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			destination, err := link.ValidateDestination(args[0])
			if err != nil {
				return err
			}

			return printLink(cmd, options(), destination)
		},
	}
}

func decodeCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "decode <fragment|link>",
		Short: "Print the destination carried by a fragment or a full link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fragment, err := link.FragmentOf(args[0])
			if err != nil {
				fragment = strings.TrimPrefix(strings.TrimSpace(args[0]), "#")
			}

			record, strategy := payload.NewDecoder(payload.LZString{}).Trace(fragment)
			if record == nil || record.URL() == "" {
				return errBrokenLink
			}

			if !asJSON {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), record.URL())

				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)

			return enc.Encode(map[string]any{"record": record, "strategy": strategy})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full record and the decoding strategy")

	return cmd
}

func qrCommand(options func() *container.Options) *cobra.Command {
	var (
		output  string
		size    int
		preview bool
	)

	cmd := &cobra.Command{
		Use:   "qr <link>",
		Short: "Write a PNG QR code for a link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case preview && size != 0:
				return errors.New("--preview and --size are mutually exclusive")
			case preview:
				size = qr.PreviewSize
			case size == 0:
				size = options().QRSize
			}

			png, err := qr.NewRenderer().Render(args[0], size)
			if err != nil {
				return err
			}

			if err := os.WriteFile(output, png, 0o644); err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), output)

			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "qrcode.png", "PNG file to write")
	cmd.Flags().IntVar(&size, "size", 0, "QR edge in pixels before padding")
	cmd.Flags().BoolVar(&preview, "preview", false, "Render a small on-screen preview")

	return cmd
}

func whatsAppCommand(options func() *container.Options) *cobra.Command {
	var req link.WhatsAppRequest

	cmd := &cobra.Command{
		Use:   "whatsapp",
		Short: "Compose a fragment link opening a WhatsApp chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			destination, err := link.WhatsApp(req)
			if err != nil {
				return err
			}

			return printLink(cmd, options(), destination)
		},
	}

	cmd.Flags().StringVar(&req.Country, "country", link.DefaultCountryCode, "Country calling code")
	cmd.Flags().StringVar(&req.Number, "number", "", "Phone number")
	cmd.Flags().StringVar(&req.Message, "message", link.DefaultMessage, "Prefilled message")

	return cmd
}

func mailtoCommand(options func() *container.Options) *cobra.Command {
	var req link.MailtoRequest

	cmd := &cobra.Command{
		Use:   "mailto",
		Short: "Compose a fragment link opening a prefilled email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			destination, err := link.Mailto(req)
			if err != nil {
				return err
			}

			return printLink(cmd, options(), destination)
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "Recipient address")
	cmd.Flags().StringVar(&req.Subject, "subject", "", "Email subject")
	cmd.Flags().StringVar(&req.Body, "body", "", "Email body")

	return cmd
}
