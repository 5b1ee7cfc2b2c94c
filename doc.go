/*
Package soldi implements monetary values stored as integer minor units
together with a currency and a precision.

# Representation

A [Money] value holds an amount of minor units (cents for USD, yen for JPY),
an opaque [Currency] token and a precision: the number of fractional digits
of the minor unit. The precision defaults to the one of the currency, see
[Currency.Precision], and may be set explicitly up to [MaxPrecision].

# Supported Ranges

Amounts are limited to the safe integer range of IEEE 754 doubles,
that is ±(2^53 - 1) minor units. Every operation that would leave this
range fails with [ErrOverflow] instead of losing precision.

# Operations

Values support addition, subtraction, multiplication and division by a
factor, percentages, lossless allocation by ratios, precision conversion,
normalization to a common precision and exchange to another currency.
Values in different precisions are converted to the higher one before they
are added, subtracted or compared.

# Rounding

Whenever a result is not a whole number of minor units it is rounded with
one of the [RoundingModes]. The default is [HalfEven], also known as
banker's rounding. The arithmetic itself lives in package calc.

# Flavors

Every value belongs to a [Flavor]. The root flavor, [Base], provides the
methods above; [Extend] stacks a named [Layer] on a flavor to produce a
derived one. Layers can rewrite construction options, attach properties,
add methods and override inherited ones. An override continues to the
next definition up the lineage with [Call.Super]. Layers may declare
[Globals] that are shared by every flavor of the same lineage tree.

# Errors

Operations return errors wrapping one of the sentinel errors of the
package, such as [ErrCurrencyMismatch] or [ErrOverflow], so that callers
can match them with [errors.Is]. Functions prefixed with Must panic
instead.
*/
package soldi
