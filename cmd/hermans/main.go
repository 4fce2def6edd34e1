// Command hermans is the terminal client for shared order lists. It talks to
// the API like the web app does.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/zekrotja/hermans/internal/client"
	"github.com/zekrotja/hermans/internal/config"
	"github.com/zekrotja/hermans/internal/model"
	"github.com/zekrotja/hermans/internal/views"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(cfg, os.Stdout).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

type app struct {
	cfg    config.Config
	apiURL string
	api    *client.Client
}

// endpoint resolves the API root. A relative root is served by the web app,
// so it is joined onto the web base URL.
func endpoint(cfg config.Config, explicit string) string {
	root := client.ResolveRootURL(explicit, cfg.Production)
	if strings.HasPrefix(root, "/") {
		return strings.TrimRight(cfg.WebBaseURL, "/") + root
	}
	return root
}

func newRootCmd(cfg config.Config, out io.Writer) *cobra.Command {
	a := &app{cfg: cfg}

	root := &cobra.Command{
		Use:          "hermans",
		Short:        "Create shared order lists and place orders",
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			a.api = client.New(endpoint(cfg, a.apiURL))
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&a.apiURL, "api", cfg.APIRootURL, "API root URL")

	root.AddCommand(a.itemsCmd(), a.listCmd(), a.orderCmd(), a.feedbackCmd())
	return root
}

func (a *app) itemsCmd() *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Print the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := &views.OrderView{API: a.api}
			if err := v.Load(cmd.Context()); err != nil {
				return err
			}
			v.SetFilter(filter)

			w := cmd.OutOrStdout()
			for _, c := range v.Categories() {
				fmt.Fprintln(w, c.Name)
				for _, it := range c.Items {
					fmt.Fprintf(w, "  %-24s %s %s\n", it.ID, it.Title, it.Price)
				}
			}
			if filter == "" {
				fmt.Fprintln(w, "Drinks")
				for _, d := range v.Drinks() {
					fmt.Fprintf(w, "  %s %s\n", d.Name, d.Price)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "only show items matching the text")
	return cmd
}

func (a *app) listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Manage order lists",
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a list and print its share link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := &views.ListView{API: a.api, WebBase: a.cfg.WebBaseURL}
			list, link, err := v.Create(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", list.ID, link)
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show <listId>",
		Short: "Print a list with its orders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := &views.OrderView{API: a.api, ListID: args[0]}
			list, err := v.Refresh(cmd.Context())
			if err != nil {
				return err
			}
			writeList(cmd.OutOrStdout(), list)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <listId>",
		Short: "Delete a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.api.DeleteList(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(create, show, del)
	return cmd
}

func (a *app) orderCmd() *cobra.Command {
	var (
		creator, item, drink, size string
		variants, dips             []string
	)
	cmd := &cobra.Command{
		Use:   "order <listId>",
		Short: "Place an order on a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := &views.OrderView{API: a.api, ListID: args[0]}
			if err := v.Load(cmd.Context()); err != nil {
				return err
			}
			v.SetCreator(creator)
			if err := v.Select(&model.StoreItem{ID: item, Variants: variants, Dips: dips}); err != nil {
				return err
			}
			if drink != "" {
				ds, err := parseDrinkSize(size)
				if err != nil {
					return err
				}
				v.SetDrink(&model.Drink{Name: drink, Size: ds})
			}

			created, err := v.Submit(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "order %s\nedit key %s\n", created.ID, created.EditKey)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&creator, "creator", "", "name shown on the order")
	f.StringVar(&item, "item", "", "store item id")
	f.StringSliceVar(&variants, "variant", nil, "variant name, repeatable")
	f.StringSliceVar(&dips, "dip", nil, "dip name, repeatable")
	f.StringVar(&drink, "drink", "", "drink name")
	f.StringVar(&size, "size", "small", "drink size: small or large")
	_ = cmd.MarkFlagRequired("item")
	return cmd
}

func (a *app) feedbackCmd() *cobra.Command {
	var typ, message, page string
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Send feedback",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			form := &views.FeedbackForm{API: a.api}
			form.Open(page)
			form.SetType(typ)
			form.SetMessage(message)
			ack, err := form.Submit(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ack)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&typ, "type", "general", "feedback type")
	f.StringVar(&message, "message", "", "feedback text")
	f.StringVar(&page, "page", "cli", "page the feedback refers to")
	_ = cmd.MarkFlagRequired("message")
	return cmd
}

func parseDrinkSize(s string) (model.DrinkSize, error) {
	switch strings.ToLower(s) {
	case "", "small":
		return model.DrinkSizeSmall, nil
	case "large":
		return model.DrinkSizeLarge, nil
	}
	return 0, fmt.Errorf("unknown drink size %q", s)
}

func writeList(w io.Writer, list *model.OrderList) {
	fmt.Fprintf(w, "list %s created %s\n", list.ID, list.Created.Format("2006-01-02 15:04"))
	if list.Deadline != nil {
		fmt.Fprintf(w, "deadline %s\n", list.Deadline.Format("2006-01-02 15:04"))
	}
	if len(list.Orders) == 0 {
		fmt.Fprintln(w, "No orders yet.")
		return
	}
	for _, o := range list.Orders {
		line := fmt.Sprintf("- %s: %s", o.Creator, o.StoreItem.ID)
		if len(o.StoreItem.Variants) > 0 {
			line += " (" + strings.Join(o.StoreItem.Variants, ", ") + ")"
		}
		if len(o.StoreItem.Dips) > 0 {
			line += " + " + strings.Join(o.StoreItem.Dips, ", ")
		}
		if o.Drink != nil {
			size := "small"
			if o.Drink.Size == model.DrinkSizeLarge {
				size = "large"
			}
			line += fmt.Sprintf(" | %s %s", o.Drink.Name, size)
		}
		fmt.Fprintln(w, line)
	}
}
