package bot

import (
	"fmt"
	"strings"

	"github.com/wolfman30/whatsapp-order-bot/internal/catalog"
	"github.com/wolfman30/whatsapp-order-bot/internal/orders"
)

// BusinessInfo is rendered into help and contact copy.
type BusinessInfo struct {
	Name  string
	Phone string
	Email string
}

const (
	parseFailureReply = `Sorry, I couldn't understand your order. Please try again with format like "1x2, 3x1" or type MENU to see options.`

	noPendingOrderReply = "No pending order found. Type MENU to start a new order."

	cancelledReply = "❌ Order cancelled. Type MENU to start a new order anytime!"

	transientErrorReply = "Sorry, there was an error processing your order. Please try again."

	apologyReply = "Sorry, there was an error processing your request. Please try again or contact support."

	noRecentOrdersReply = "No recent orders found. Type MENU to place an order!"

	unknownReply = `I didn't understand that. Here are your options:

📋 MENU - View our menu
🛒 Order format: "1x2, 3x1" (item number x quantity)
📦 TRACK - Check order status
❓ HELP - Get help

What would you like to do?`
)

func helpReply(biz BusinessInfo) string {
	return fmt.Sprintf(`🤖 *How to Order*

1️⃣ Type MENU to see our menu
2️⃣ Order by typing item numbers: "1x2, 3x1"
3️⃣ Confirm your order when asked
4️⃣ Track with TRACK command

📞 Contact: %s
📧 Email: %s

Type MENU to get started!`, biz.Phone, biz.Email)
}

func orderSummaryReply(items []orders.LineItem, total catalog.Cents) string {
	var b strings.Builder
	b.WriteString("🛒 *Order Summary*\n\n")
	for _, item := range items {
		fmt.Fprintf(&b, "• %s x%d - $%s\n", item.Name, item.Quantity, item.LineTotal.Dollars())
	}
	fmt.Fprintf(&b, "\n💰 *Total: $%s*\n\n", total.Dollars())
	b.WriteString("Reply CONFIRM to place order or CANCEL to cancel.")
	return b.String()
}

var statusEmoji = map[string]string{
	orders.StatusPending:   "⏳",
	orders.StatusConfirmed: "✅",
	orders.StatusPreparing: "👨‍🍳",
	orders.StatusReady:     "🎯",
	orders.StatusDelivered: "🚚",
	orders.StatusCancelled: "❌",
}

func trackingReply(o *orders.Order) string {
	var b strings.Builder
	b.WriteString("📦 *Order Status*\n\n")
	fmt.Fprintf(&b, "📋 Order: %s\n", o.OrderNumber)
	fmt.Fprintf(&b, "%s Status: %s\n", statusEmoji[o.Status], strings.ToUpper(o.Status))
	fmt.Fprintf(&b, "💰 Total: $%s", o.Total.Dollars())
	switch o.Status {
	case orders.StatusPreparing:
		b.WriteString("\n\n⏰ Estimated time: 20-30 minutes")
	case orders.StatusReady:
		b.WriteString("\n\n🎉 Your order is ready for pickup/delivery!")
	}
	return b.String()
}
