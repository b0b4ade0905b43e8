package verifier

import (
	"strings"
)

func lines(l ...string) string {
	return strings.Join(l, "\n") + "\n"
}

// billingDiff adds one exported function.
var billingDiff = lines(
	"diff --git a/src/billing.ts b/src/billing.ts",
	"index 1111111..2222222 100644",
	"--- a/src/billing.ts",
	"+++ b/src/billing.ts",
	"@@ -1,3 +1,7 @@",
	` import { Item } from "./item";`,
	" ",
	"+export function computeTotal(items: Item[]): number {",
	"+  return items.reduce((sum, item) => sum + item.price, 0);",
	"+}",
	"+",
	` export const CURRENCY = "USD";`,
)

// cartTaxDiff touches three major symbols across two files.
var cartTaxDiff = lines(
	"diff --git a/src/cart.ts b/src/cart.ts",
	"index 3333333..4444444 100644",
	"--- a/src/cart.ts",
	"+++ b/src/cart.ts",
	"@@ -1,5 +1,10 @@",
	` import { Item } from "./item";`,
	" ",
	"-export function computeTotal(items: Item[]): number {",
	"-  return items.reduce((sum, item) => sum + item.price, 0);",
	"+export function computeTotal(items: Item[], discount = 0): number {",
	"+  const total = items.reduce((sum, item) => sum + item.price, 0);",
	"+  return applyDiscount(total, discount);",
	"+}",
	"+",
	"+export function applyDiscount(total: number, rate: number): number {",
	"+  return total * (1 - rate);",
	" }",
	"diff --git a/src/tax.ts b/src/tax.ts",
	"new file mode 100644",
	"index 0000000..5555555",
	"--- /dev/null",
	"+++ b/src/tax.ts",
	"@@ -0,0 +1,3 @@",
	"+export function calculateTax(amount: number, rate: number): number {",
	"+  return amount * rate;",
	"+}",
)

// renameDiff renames a function without touching its body.
var renameDiff = lines(
	"diff --git a/billing/total.go b/billing/total.go",
	"index 6666666..7777777 100644",
	"--- a/billing/total.go",
	"+++ b/billing/total.go",
	"@@ -3,4 +3,4 @@ package billing",
	"-func calcTotal(prices []int) int {",
	"+func computeTotal(prices []int) int {",
	" \tsum := 0",
	" \tfor _, p := range prices {",
	" \t\tsum += p",
)

// largeDiff is billingDiff followed by a README long enough to be truncated.
// renderInvoice only appears at its very end.
var largeDiff = func() string {
	readme := []string{
		"diff --git a/README.md b/README.md",
		"index 8888888..9999999 100644",
		"--- a/README.md",
		"+++ b/README.md",
		"@@ -1,1 +1,121 @@",
		" # Billing",
	}
	for i := 0; i < 119; i++ {
		readme = append(readme, "+Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor.")
	}
	readme = append(readme, "+See renderInvoice for the printable format.")
	return billingDiff + lines(readme...)
}()

// guardDiff edits only the body of computeTotal; git names the function in
// the hunk header.
var guardDiff = lines(
	"diff --git a/billing/cart.go b/billing/cart.go",
	"index aaaaaaa..bbbbbbb 100644",
	"--- a/billing/cart.go",
	"+++ b/billing/cart.go",
	"@@ -10,6 +10,9 @@ func computeTotal(items []*Item) int {",
	" \ttotal := 0",
	" \tfor _, item := range items {",
	"+\t\tif item == nil {",
	"+\t\t\tcontinue",
	"+\t\t}",
	" \t\ttotal += item.Price",
	" \t}",
	" \treturn total",
	" }",
)

// legacyRemovalDiff deletes two functions and adds nothing.
var legacyRemovalDiff = lines(
	"diff --git a/svc/legacy.go b/svc/legacy.go",
	"index ccccccc..ddddddd 100644",
	"--- a/svc/legacy.go",
	"+++ b/svc/legacy.go",
	"@@ -1,9 +1,1 @@",
	" package svc",
	"-",
	"-func OldLoader() error {",
	"-\treturn oldHelper()",
	"-}",
	"-",
	"-func oldHelper() error {",
	"-\treturn nil",
	"-}",
)
