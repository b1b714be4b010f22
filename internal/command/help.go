package command

// HelpText — список команд, который отправляется в ответ на COMMANDS, HELP и ?.
// Каждый ключ queryTable и префикс queryPatterns должен упоминаться в тексте.
const HelpText = `Commands:
MILEAGE, date, name, start|mid|end, miles
HOURS, date, hours today, hours this week
PROCESS - process logged entries
PAY, STATUS or PAY STATUS - pay status
PERIOD or PAY PERIOD - current pay period
HISTORY or PAY HISTORY - pay history
TODAY or MILES TODAY - miles logged today
MILES - mileage summary
MILES name - last 30 days for name
MILES YYYY-MM-DD - mileage for a date
WEEK, HOURS or HOURS WEEK - hours this week
COMMANDS, HELP or ? - this list
Dates: YYYY-MM-DD, YYYY/MM/DD, YYYY MM DD or today()`
